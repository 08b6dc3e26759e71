package assoc

import (
	"os"
	"path/filepath"
	"strings"
)

const (
	LogisticSuffix = ".assoc.logistic"
	AdjustedSuffix = ".assoc.logistic.adjusted"
)

// ScanResult lists matching files in directory order.
type ScanResult struct {
	Primary  []string
	Adjusted []string
}

func (sr *ScanResult) Empty() bool {
	return len(sr.Primary) == 0 && len(sr.Adjusted) == 0
}

// Scan selects the files in dir whose name starts with prefix and contains
// "<model>.assoc", split by suffix into logistic and adjusted results.
// Matches with neither suffix are ignored.
func Scan(dir, prefix, model string) (*ScanResult, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	tag := model + ".assoc"
	sr := &ScanResult{}
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasPrefix(name, prefix) || !strings.Contains(name, tag) {
			continue
		}
		switch {
		case strings.HasSuffix(name, LogisticSuffix):
			sr.Primary = append(sr.Primary, filepath.Join(dir, name))
		case strings.HasSuffix(name, AdjustedSuffix):
			sr.Adjusted = append(sr.Adjusted, filepath.Join(dir, name))
		}
	}
	return sr, nil
}
