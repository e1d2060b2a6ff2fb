package sync

import (
	"fmt"
	"strconv"

	"github.com/findolor/local-db-remote/pkg/checkpoint"
	"github.com/findolor/local-db-remote/pkg/telemetry"
)

// PlanLines renders a human-readable description of a sync plan.
func PlanLines(label string, plan checkpoint.Plan) []string {
	lastBlock := "none"
	if plan.LastBlock != nil {
		lastBlock = FormatBlock(*plan.LastBlock)
	}
	return []string{
		fmt.Sprintf("plan for %s", label),
		fmt.Sprintf("  store path: %s", plan.StorePath),
		fmt.Sprintf("  archive path: %s", plan.ArchivePath),
		fmt.Sprintf("  last synced block: %s", lastBlock),
		fmt.Sprintf("  next start block: %s", FormatBlock(plan.StartBlock)),
	}
}

func logPlan(log *telemetry.Logger, label string, plan checkpoint.Plan) {
	for _, line := range PlanLines(label, plan) {
		log.Info(line)
	}
}

// FormatBlock renders a block number with digit grouping for logs.
func FormatBlock(value uint64) string {
	digits := strconv.FormatUint(value, 10)
	if len(digits) <= 3 {
		return digits
	}

	var out []byte
	for i, d := range []byte(digits) {
		if i > 0 && (len(digits)-i)%3 == 0 {
			out = append(out, ',')
		}
		out = append(out, d)
	}
	return string(out)
}
