// Package joke holds the premium catalogue.
package joke

import (
	"math/rand"
	"slices"
)

var jokes = []string{
	"Why don't eggs tell jokes? They'd crack each other up! 🥚😂",
	"I'm afraid for the calendar. Its days are numbered. 📅😱",
	"What do you call a fake noodle? An impasta! 🍝😎",
	"Why did the scarecrow win an award? He was outstanding in his field! 🌾🏆",
	"I only know 25 letters of the alphabet. I don't know y. 🔤🤷",
}

// Random picks one joke uniformly, with replacement. Repeats across calls
// are expected and not tracked per user.
func Random() string {
	return jokes[rand.Intn(len(jokes))]
}

// All returns a copy of the catalogue.
func All() []string {
	return slices.Clone(jokes)
}
