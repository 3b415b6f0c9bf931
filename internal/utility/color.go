package utility

import (
	"fmt"
	"math/rand/v2"
)

// RandomColorHex returns a #rrggbb colour with every channel kept away from
// pure black and white so names stay readable on either background.
func RandomColorHex() string {
	return fmt.Sprintf("#%02x%02x%02x", channel(), channel(), channel())
}

func channel() int {
	return 4 + rand.IntN(248)
}
