package component

type AgentTag struct{}

var AgentTagComponent = NewComponent[AgentTag]()

type PlatformTag struct{}

var PlatformTagComponent = NewComponent[PlatformTag]()
