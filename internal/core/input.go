package core

// Action is a semantic input, independent of the physical key.
type Action int

const (
	ActionNone Action = iota
	ActionUp
	ActionDown
	ActionLeft
	ActionRight
	ActionSelect  // pick up or drop the token under the cursor
	ActionCancel  // drop the current selection
	ActionHint    // highlight a possible move
	ActionConfirm // menu confirm
	ActionBack
	ActionRestart
	ActionQuit
	ActionPause
)

var actionNames = map[Action]string{
	ActionNone:    "None",
	ActionUp:      "Up",
	ActionDown:    "Down",
	ActionLeft:    "Left",
	ActionRight:   "Right",
	ActionSelect:  "Select",
	ActionCancel:  "Cancel",
	ActionHint:    "Hint",
	ActionConfirm: "Confirm",
	ActionBack:    "Back",
	ActionRestart: "Restart",
	ActionQuit:    "Quit",
	ActionPause:   "Pause",
}

// String returns the action name.
func (a Action) String() string {
	if name, ok := actionNames[a]; ok {
		return name
	}
	return "Unknown"
}

// InputFrame holds the actions triggered during one tick.
type InputFrame struct {
	Actions map[Action]bool
}

// NewInputFrame creates an empty frame.
func NewInputFrame() InputFrame {
	return InputFrame{Actions: make(map[Action]bool)}
}

// Set marks a as triggered.
func (f *InputFrame) Set(a Action) {
	if f.Actions == nil {
		f.Actions = make(map[Action]bool)
	}
	f.Actions[a] = true
}

// Has reports whether a was triggered.
func (f InputFrame) Has(a Action) bool {
	return f.Actions[a]
}

// Empty reports whether no action was triggered.
func (f InputFrame) Empty() bool {
	return len(f.Actions) == 0
}

// Clear resets the frame for the next tick.
func (f *InputFrame) Clear() {
	clear(f.Actions)
}

// Clone returns an independent copy of the frame.
func (f InputFrame) Clone() InputFrame {
	clone := NewInputFrame()
	for k, v := range f.Actions {
		clone.Actions[k] = v
	}
	return clone
}
