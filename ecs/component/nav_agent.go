package component

import "github.com/milk9111/hideseek/nav"

type NavAgent struct {
	Agent *nav.GridAgent
}

var NavAgentComponent = NewComponent[NavAgent]()
