// Package tool defines the descriptor shape for agent-facing tools.
package tool

// Descriptor describes one callable tool to the agent.
type Descriptor struct {
	Name        string
	Description string
	// RequiresArgs is false for tools callable with an empty argument object.
	RequiresArgs bool
	InputSchema  map[string]any
}
