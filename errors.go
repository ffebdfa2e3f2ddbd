package ddg

import (
	"fmt"
	"runtime"
)

// ErrMsg returns an error prefixed with the calling function's name and
// line number. The message is formatted as in fmt.Sprintf.
func ErrMsg(format string, args ...any) error {
	msg := fmt.Sprintf(format, args...)
	pc, _, line, ok := runtime.Caller(1)
	if !ok {
		return fmt.Errorf("?: %s", msg)
	}
	fn := runtime.FuncForPC(pc)
	return fmt.Errorf("%s line %d: %s", fn.Name(), line, msg)
}
