package audit

import (
	"github.com/retailcore/inventory-service/internal/audit/dto"
	"github.com/retailcore/inventory-service/internal/model"
)

// CalculateAuditStats partitions adjustment entries by the sign of their
// quantity change: zero means the physical count confirmed the system
// quantity, positive means more was found than recorded, negative less.
// Entries of other types are ignored.
func CalculateAuditStats(entries []model.StockTransaction) dto.AuditStats {
	stats := dto.AuditStats{}

	for _, e := range entries {
		if e.Type != model.TransactionAdjustment {
			continue
		}
		stats.TotalAudited++
		switch {
		case e.QuantityChange == 0:
			stats.CorrectCount++
		case e.QuantityChange > 0:
			stats.OverCount++
		default:
			stats.UnderCount++
		}
	}

	if stats.TotalAudited > 0 {
		stats.AccuracyRate = float64(stats.CorrectCount) / float64(stats.TotalAudited) * 100
	}
	return stats
}
