//go:build !race

package idp

func passwordHashCost() int {
	return 14
}
