package host

import (
	"fmt"
	"log"
	"os"
	"time"
)

// NewRunLogger creates (and creates the containing dir for) a fresh
// timestamped log file under dir and returns a logger writing to it.
func NewRunLogger(dir string) (*log.Logger, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}
	name := fmt.Sprintf("%s/dcpu-%s.log", dir, time.Now().Format("20060102-150405"))
	f, err := os.OpenFile(name, os.O_WRONLY|os.O_CREATE, 0664)
	if err != nil {
		return nil, err
	}
	return log.New(f, "", 0), nil
}
