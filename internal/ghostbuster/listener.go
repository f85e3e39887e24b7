package ghostbuster

import "github.com/specialistvlad/ghostview/internal/node"

// Listener observes ghost events. Calls happen synchronously inside a cycle
// and must not start another one.
type Listener interface {
	// GhostsVisible receives the ghosts that became visible in an add
	// cycle, sorted by UID. The slice may be empty.
	GhostsVisible(ghosts []*node.Node)
	// Unghosted receives the real UIDs that lost their last ghost.
	Unghosted(uids []string)
}

// ListenerFuncs adapts plain functions to Listener. Nil fields are skipped.
type ListenerFuncs struct {
	OnGhostsVisible func([]*node.Node)
	OnUnghosted     func([]string)
}

func (f ListenerFuncs) GhostsVisible(ghosts []*node.Node) {
	if f.OnGhostsVisible != nil {
		f.OnGhostsVisible(ghosts)
	}
}

func (f ListenerFuncs) Unghosted(uids []string) {
	if f.OnUnghosted != nil {
		f.OnUnghosted(uids)
	}
}
