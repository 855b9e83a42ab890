package objectstore

import (
	"context"
	"log/slog"

	"framegate/internal/logging"
	"framegate/internal/services"
)

// Candidate key enumeration: every prefix crossed with every extension
// casing, prefix in the outer position. Upload tooling writes lowercase keys
// under input/, but operator-copied files show up under upload/ with either
// casing, so all four combinations are probed.
var (
	probePrefixes   = []string{"input/", "upload/"}
	probeExtensions = []string{".dcm", ".DCM"}
)

// Candidates returns the deterministic candidate keys for a logical
// identifier, in probe order.
func Candidates(id string) []string {
	keys := make([]string, 0, len(probePrefixes)*len(probeExtensions))
	for _, prefix := range probePrefixes {
		for _, ext := range probeExtensions {
			keys = append(keys, prefix+id+ext)
		}
	}
	return keys
}

// Probe locates the stored object backing a logical identifier by checking
// each candidate key in order.
type Probe struct {
	store  Store
	logger *slog.Logger
}

// NewProbe constructs a Probe over the given store.
func NewProbe(store Store, logger *slog.Logger) *Probe {
	return &Probe{
		store:  store,
		logger: logging.NewComponentLogger(logger, "probe"),
	}
}

// Locate returns the first candidate key that exists. A transient failure on
// one candidate counts as a miss and probing continues; existence checks are
// not retried individually. Only full exhaustion reports not-found.
func (p *Probe) Locate(ctx context.Context, id string) (string, error) {
	for _, key := range Candidates(id) {
		ok, err := p.store.Exists(ctx, key)
		if err != nil {
			p.logger.Warn("existence check failed, treating as miss",
				logging.String(logging.FieldKey, key),
				logging.Error(err))
			continue
		}
		if ok {
			p.logger.Debug("candidate hit", logging.String(logging.FieldKey, key))
			return key, nil
		}
	}
	return "", services.Wrap(services.ErrNotFound, "object-store", "probe", "no object found for identifier "+id, nil)
}
