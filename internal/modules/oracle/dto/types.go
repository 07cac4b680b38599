package dto

type AskInput struct {
	Question string
}

type AskOutput struct {
	Persona  string
	Text     string
	Fallback bool
}
