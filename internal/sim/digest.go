package sim

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/claudiarawson/CECS-427-Network-Dynamic-Population-Model/internal/graph"
)

// digestDomain prefixes the digest input for domain separation.
// Version suffix enables future format migration.
const digestDomain = "popsim/result/v1"

// ResultDigest computes a stable SHA-256 fingerprint of a run: the
// config parameters that produced it, the day-by-day counts, and the
// final per-node states.
//
// Two runs of the same validated config must produce the same digest;
// the replay command relies on that to verify determinism of archived
// runs. The scenario name is NFC normalized so visually identical
// Unicode spellings hash the same way.
func ResultDigest(cfg Config, res *Result) string {
	var b strings.Builder

	b.WriteString("name=")
	b.WriteString(norm.NFC.String(cfg.Name))
	b.WriteString("|mode=")
	b.WriteString(string(cfg.Mode))

	b.WriteString("|seeds=")
	for i, s := range cfg.Seeds {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(strconv.Itoa(int(s)))
	}

	fmt.Fprintf(&b, "|threshold=%.17g|probability=%.17g|lifespan=%d|infectious=%d|shelter=%.17g|vaccination=%.17g|seed=%d",
		cfg.Threshold,
		cfg.InfectionProbability,
		cfg.Lifespan,
		cfg.InfectiousDuration(),
		cfg.ShelterProportion,
		cfg.VaccinationProportion,
		cfg.RandomSeed,
	)

	b.WriteString("|counts=")
	for i, c := range res.DailyNewCases {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(strconv.Itoa(c))
	}

	b.WriteString("|final=")
	ids := make([]int, 0, len(res.FinalStates))
	for id := range res.FinalStates {
		ids = append(ids, int(id))
	}
	sort.Ints(ids)
	for i, id := range ids {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(strconv.Itoa(id))
		b.WriteByte(':')
		b.WriteString(string(res.FinalStates[graph.NodeID(id)]))
	}

	h := sha256.New()
	h.Write([]byte(digestDomain))
	h.Write([]byte{0x00}) // separator prevents domain/data boundary ambiguity
	h.Write([]byte(b.String()))
	return hex.EncodeToString(h.Sum(nil))
}
