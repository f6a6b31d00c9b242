package static

import _ "embed"

// OperatorMd contains the embedded operator guide.
//
//go:embed operator.md
var OperatorMd string
