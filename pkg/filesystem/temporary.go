package filesystem

const (
	// TemporaryNamePrefix is the file name prefix used for all temporary files
	// and directories created by fileplan during activation. Using this prefix
	// guarantees that any such files are easy to identify and clean up if
	// activation is interrupted. It may be suffixed with additional elements
	// if desired.
	TemporaryNamePrefix = ".fileplan-temporary-"
)
