package card

// Command is a unit of behavior run by a lifecycle hook.
type Command struct {
	Name string
	Run  func(g Game, c *Instance) error
}

// Hook names the four lifecycle hook lists.
type Hook int

const (
	HookEnter Hook = iota
	HookLeave
	HookDestroy
	HookControlChange
)

func (h Hook) String() string {
	switch h {
	case HookEnter:
		return "enter"
	case HookLeave:
		return "leave"
	case HookDestroy:
		return "destroy"
	case HookControlChange:
		return "control-change"
	}
	return "unknown"
}
