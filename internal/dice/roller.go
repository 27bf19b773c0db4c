package dice

// Roller is the source of randomness for dice evaluation. Injecting it
// keeps evaluation reproducible in tests and lets a failed action's
// rolls be replayed during debugging.
type Roller interface {
	// RollDie returns a uniform integer in [1, sides].
	RollDie(sides int) int
}
