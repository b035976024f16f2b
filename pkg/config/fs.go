package config

import "github.com/spf13/afero"

// fs is the filesystem used to read configuration files. Tests override
// it with afero.NewMemMapFs().
var fs = afero.NewOsFs()
