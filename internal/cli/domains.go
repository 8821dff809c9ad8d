package cli

import (
	"os"
	"strings"

	"github.com/pravsels/deepwork/internal/block/common/log"
	"github.com/pravsels/deepwork/internal/block/common/utils"
	"github.com/pravsels/deepwork/internal/block/domain"
)

// loadDomains reads a distraction list: one domain per line, blank lines
// and #-comments ignored. A missing file is a NotFoundError raised before
// any blocking layer is touched. Entries without a recognizable public
// suffix are kept but flagged, since they are usually typos.
func loadDomains(path string, logger log.Logger) ([]string, error) {
	raw, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, &domain.NotFoundError{Path: path}
	}
	if err != nil {
		return nil, err
	}

	var domains []string
	for _, line := range strings.Split(string(raw), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if !utils.HasKnownSuffix(line) {
			logger.Warn(map[string]any{"domain": line}, "domain has no recognizable public suffix, possible typo")
		}
		domains = append(domains, line)
	}
	return domains, nil
}
