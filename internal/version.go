package internal

import "fmt"

// Set at build time with -ldflags "-X github.com/Eyevinn/moqabr/internal.commitVersion=..."
var (
	commitVersion string = "v0.1.0"
	commitDate    string
)

// GetVersion returns the version string, including the commit date when known.
func GetVersion() string {
	if commitDate == "" {
		return commitVersion
	}
	return fmt.Sprintf("%s, date: %s", commitVersion, commitDate)
}
