package workout

import (
	"strconv"
	"strings"
	"time"
)

var months = [12]string{
	"January", "February", "March", "April", "May", "June",
	"July", "August", "September", "October", "November", "December",
}

// Describe returns the label shown for a workout, e.g. "Running on April 14".
func Describe(t Type, at time.Time) string {
	name := string(t)
	if name != "" {
		name = strings.ToUpper(name[:1]) + name[1:]
	}
	return name + " on " + months[int(at.Month())-1] + " " + strconv.Itoa(at.Day())
}
