package sync

import "github.com/spf13/afero"

// fs is the filesystem used for destination creation and source checks.
// Tests override it with afero.NewMemMapFs().
var fs = afero.NewOsFs()
