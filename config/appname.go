package config

import (
	"path/filepath"

	"github.com/kardianos/osext"
)

// defaultApplicationName derives application_name from the running
// executable's path when the connection string omits one, the same purpose
// the teacher uses github.com/kardianos/osext for.
func defaultApplicationName() string {
	p, err := osext.Executable()
	if err != nil || p == "" {
		return "pqgo"
	}
	return filepath.Base(p)
}
