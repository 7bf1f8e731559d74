package badger

import "fmt"

// Key prefixes for different data types
const (
	configSetPrefix = "cfgset"
)

// makeConfigSetKey generates the key of a named configuration set.
func makeConfigSetKey(name string) []byte {
	return []byte(fmt.Sprintf("%s:%s", configSetPrefix, name))
}
