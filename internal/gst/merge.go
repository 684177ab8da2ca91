package gst

import "gstr1/internal/domain"

// Merge concatenates sales then returns, preserving each source's order, and
// resolves the jurisdiction code of every row. Rows are never deduplicated.
// returns may be nil when the archive carried no returns file.
func Merge(resolver *Resolver, sales, returns []domain.TransactionRow) []domain.TransactionRow {
	merged := make([]domain.TransactionRow, 0, len(sales)+len(returns))
	merged = append(merged, sales...)
	merged = append(merged, returns...)
	for i := range merged {
		merged[i].JurisdictionCode = resolver.Resolve(merged[i].CustomerState)
	}
	return merged
}
