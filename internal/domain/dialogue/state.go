// Package dialogue defines the conversation states and the questions asked in each.
package dialogue

// State is the question the conversation is waiting on.
type State string

// Conversation states. Refine is terminal and loops on itself.
const (
	Initial     State = "initial"
	Purpose     State = "purpose"
	Size        State = "size"
	Budget      State = "budget"
	Brand       State = "brand"
	Features    State = "features"
	Performance State = "performance"
	Refine      State = "refine"
)

var order = []State{Initial, Purpose, Size, Budget, Brand, Features, Performance, Refine}

var questions = map[State]string{
	Initial:     "Hi! Tell me what kind of laptop you're after.",
	Purpose:     "What will you mainly use the laptop for? (gaming, study, business, programming, creative work)",
	Size:        "What screen size do you prefer? (e.g. 13, 14, 15.6 inch, or small / large)",
	Budget:      "What's your budget? (e.g. under £800, between £500 and £1000)",
	Brand:       "Any preferred brands, or brands you'd rather avoid?",
	Features:    "Any must-have features or ports? (backlit keyboard, touchscreen, HDMI, USB-C...)",
	Performance: "How much performance do you need? (basic, medium, high)",
	Refine:      "Want to see more, something cheaper, pricier, smaller, larger, or for a different use?",
}

// States returns every state in conversation order.
func States() []State {
	out := make([]State, len(order))
	copy(out, order)
	return out
}

// Next returns the state after s. Refine loops on itself.
func (s State) Next() State {
	for i, st := range order {
		if st == s && i+1 < len(order) {
			return order[i+1]
		}
	}
	return Refine
}

// Question returns the prompt shown while waiting in s.
func (s State) Question() string {
	return questions[s]
}

// Valid reports whether s is a known state.
func (s State) Valid() bool {
	_, ok := questions[s]
	return ok
}
