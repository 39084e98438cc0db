package app

import (
	"io"

	"github.com/specialistvlad/bridgeloader/internal/handlers"
	"github.com/specialistvlad/bridgeloader/modules/print"
)

// coreModules is the definitive list of all modules that are compiled into
// the bridgeloader binary.
func coreModules(outW io.Writer) []handlers.Module {
	return []handlers.Module{
		&print.Module{Out: outW},
	}
}
