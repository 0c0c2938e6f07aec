package staff

// AddInput holds a new shift as captured from a form or flags.
type AddInput struct {
	Name string
	Date string
	Time string
	Role string
}
