package shipment

import (
	"context"
	"strconv"
	"strings"
	"time"

	draftRepo "github.com/tmurray-at-tygershark/solushipX-sub005/database/repository/draft"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const maxIDAttempts = 5

// IDGenerator produces unique, human-readable shipment identifiers.
type IDGenerator interface {
	Generate(ctx context.Context, companyID, customerID string) (string, error)
}

// DraftIDGenerator holds the primary and fallback strategies explicitly. The
// primary strategy checks candidates for uniqueness against the draft store;
// when that check itself fails (a dependency error, not a collision) the
// generator downgrades to a coarser timestamp-derived identifier and logs a
// distinct event rather than failing the caller.
type DraftIDGenerator struct {
	Drafts draftRepo.DraftRepository
	Logger *zap.Logger
}

// Generate builds a short identifier embedding company and customer tokens
// plus a compact collision-avoidance suffix.
func (g *DraftIDGenerator) Generate(ctx context.Context, companyID, customerID string) (string, error) {
	prefix := idToken(companyID) + idToken(customerID)

	for attempt := 0; attempt < maxIDAttempts; attempt++ {
		candidate := prefix + "-" + shortSuffix()
		exists, err := g.Drafts.ExistsShipmentID(ctx, companyID, candidate)
		if err != nil {
			return g.fallbackGenerate(prefix, err), nil
		}
		if !exists {
			return candidate, nil
		}
		g.Logger.Debug("shipment id collision, regenerating",
			zap.String("candidate", candidate),
			zap.Int("attempt", attempt+1),
		)
	}

	// Collision budget exhausted; the timestamp scheme still guarantees
	// distinct values.
	return g.fallbackGenerate(prefix, nil), nil
}

// fallbackGenerate derives a coarser identifier from the wall clock. It
// sacrifices readability for progress and is logged as its own event so the
// downgrade is observable rather than inferred from exception flow.
func (g *DraftIDGenerator) fallbackGenerate(prefix string, cause error) string {
	id := prefix + "-" + strings.ToUpper(strconv.FormatInt(time.Now().UnixMilli(), 36))
	g.Logger.Warn("using fallback shipment id strategy",
		zap.String("shipmentId", id),
		zap.Error(cause),
	)
	return id
}

// idToken reduces an identifier to a short uppercase alphanumeric token.
func idToken(id string) string {
	var b strings.Builder
	for _, r := range strings.ToUpper(id) {
		if (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
			if b.Len() == 3 {
				break
			}
		}
	}
	for b.Len() < 3 {
		b.WriteByte('X')
	}
	return b.String()
}

// shortSuffix returns five characters of fresh randomness.
func shortSuffix() string {
	raw := strings.ToUpper(strings.ReplaceAll(uuid.New().String(), "-", ""))
	return raw[:5]
}
