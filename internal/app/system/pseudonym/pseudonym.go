// Package pseudonym generates the anonymized display handles shown in the
// feed instead of real names.
//
// The handle is derived deterministically from the identity provider's user
// ID, so a user keeps the same pseudonym across sessions and devices without
// any extra storage.
package pseudonym

import (
	"fmt"
	"math/rand"
)

var adjectives = []string{
	"Silent", "Brave", "Clever", "Swift", "Mighty", "Bold", "Lucky", "Happy",
	"Quiet", "Fierce", "Gentle", "Crazy", "Sly", "Wild", "Calm", "Wise",
	"Bright", "Strong", "Charming", "Smart", "Quick", "Kind", "Loyal", "Fearless",
	"Sharp", "Brilliant", "Noble", "Daring", "Witty", "Honest", "Caring", "Jolly",
	"Vigilant", "Patient", "Energetic", "Serene", "Fiery", "Luminous", "Valiant", "Gallant",
	"Majestic", "Radiant", "Steady", "Tenacious", "Gracious", "Dynamic", "Humble", "Cheerful",
}

var nouns = []string{
	"Tiger", "Falcon", "Lion", "Wolf", "Eagle", "Shark", "Panther", "Fox",
	"Bear", "Dragon", "Hawk", "Raven", "Cobra", "Jaguar", "Viper", "Otter",
	"Leopard", "Cheetah", "Cougar", "Lynx", "Grizzly", "Wolverine", "Badger", "Mustang",
	"Stallion", "Condor", "Osprey", "Heron", "Mantis", "Scorpion", "Kraken", "Phoenix",
}

// hash32 is the JavaScript-style string hash h = (h << 5) - h + c over
// 32-bit integers.
func hash32(s string) int32 {
	var h int32
	for _, c := range s {
		h = (h << 5) - h + int32(c)
	}
	return h
}

func abs(v int32) int64 {
	n := int64(v)
	if n < 0 {
		n = -n
	}
	return n
}

// FromUserID returns the deterministic pseudonym for the given external
// user identifier, e.g. "SilentTiger482".
func FromUserID(userID string) string {
	h := hash32(userID)
	adj := adjectives[abs(h)%int64(len(adjectives))]
	noun := nouns[abs(h>>3)%int64(len(nouns))]
	number := abs(h>>6)%900 + 100
	return fmt.Sprintf("%s%s%d", adj, noun, number)
}

// Random returns a pseudonym for callers with no stable identifier yet.
func Random() string {
	h := int32(rand.Intn(1_000_000))
	adj := adjectives[abs(h)%int64(len(adjectives))]
	noun := nouns[abs(h>>3)%int64(len(nouns))]
	number := abs(h>>6)%900 + 100
	return fmt.Sprintf("%s%s%d", adj, noun, number)
}
