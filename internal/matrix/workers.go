package matrix

import "runtime"

// rowWorkers returns how many goroutines parRows should split rows
// operations. Row-parallel work is only worth the goroutine overhead
// once there are enough rows to keep more than one worker busy.
func rowWorkers(rows int) int {
	w := runtime.GOMAXPROCS(0)
	if w > rows {
		w = rows
	}
	if w < 1 {
		w = 1
	}

	return w
}
