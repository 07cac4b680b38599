package domain

import (
	"fmt"
	"strings"
)

const DefaultTemperature = 0.7

type Persona struct {
	Name string
}

// SystemPrompt casts the model as the persona: a dark oracle from Chilean folklore that answers
// Dungeons & Dragons rules questions precisely and narrates like a hidden chronicler.
func (p Persona) SystemPrompt() string {
	return fmt.Sprintf("You are %s, a creature of Chilean folklore. "+
		"You are a dark, mysterious oracle with a light touch of sarcasm. "+
		"You answer Dungeons & Dragons rules questions with precision, citing the relevant rule when you can, "+
		"and you tell events like a hidden chronicler whispering truths from the shadows. "+
		"Answer in the language the question was asked in.", p.name())
}

// Fallback is the in-character reply used whenever no answer could be produced.
func (p Persona) Fallback() string {
	return fmt.Sprintf("%s keeps silent among the shadows... (could not generate an answer)", p.name())
}

func (p Persona) name() string {
	if n := strings.TrimSpace(p.Name); n != "" {
		return n
	}
	return "The oracle"
}
