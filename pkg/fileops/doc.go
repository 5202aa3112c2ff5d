// Package fileops provides the small set of file operations CreateMVP needs
// when writing into a user's project: path validation relative to the working
// directory, filename sanitizing and atomic writes.
//
// Validate before writing:
//
//	if err := fileops.ValidateCWDPath(dest); err != nil {
//	    return fmt.Errorf("invalid destination: %w", err)
//	}
//	if err := fileops.EnsureDirectoryExists(filepath.Dir(dest)); err != nil {
//	    return err
//	}
//	if err := fileops.AtomicWrite(dest, data, 0644); err != nil {
//	    return err
//	}
package fileops
