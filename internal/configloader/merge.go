package configloader

import "github.com/yaklabco/cosls/pkg/config"

// merge returns base with the flag values of override applied. Files are
// layered by decoding onto the running configuration; merge is for
// flag-built configs, where a zero value means the flag was not given. A
// false boolean therefore never clears a true one.
func merge(base, override *config.Config) *config.Config {
	if base == nil {
		return override
	}
	result := base.Clone()
	if override == nil {
		return result
	}

	f, o := &result.Format, override.Format
	set(&f.TabSize, o.TabSize)
	set(&f.InsertSpaces, o.InsertSpaces)
	set(&f.MultiLineArgs, o.MultiLineArgs)
	set(&f.CommaStyle, o.CommaStyle)
	set(&f.CommandCase, o.CommandCase)
	set(&f.CommandLength, o.CommandLength)

	set(&result.Extract.DefaultName, override.Extract.DefaultName)
	set(&result.Extract.DocStub, override.Extract.DocStub)
	set(&result.Metadata.DSN, override.Metadata.DSN)
	set(&result.Metadata.ClassTable, override.Metadata.ClassTable)
	set(&result.Metadata.TimeoutSeconds, override.Metadata.TimeoutSeconds)
	set(&result.Tokens.Suffix, override.Tokens.Suffix)
	set(&result.Backups.Enabled, override.Backups.Enabled)
	set(&result.Backups.Mode, override.Backups.Mode)

	set(&result.Output, override.Output)
	set(&result.Jobs, override.Jobs)
	set(&result.DryRun, override.DryRun)
	set(&result.NoBackups, override.NoBackups)

	if override.Ignore != nil {
		result.Ignore = append([]string(nil), override.Ignore...)
	}
	return result
}

// set overwrites *dst with v unless v is the zero value.
func set[T comparable](dst *T, v T) {
	var zero T
	if v != zero {
		*dst = v
	}
}
