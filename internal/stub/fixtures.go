package stub

import "github.com/Veraticus/dcb-calc/internal/model"

// DefaultResponses returns a short ledger whose last two months are overdue.
// The figures are fixed sample data.
func DefaultResponses() map[model.Mode]model.UploadResponse {
	base := []model.ResultEntry{
		{Month: 10, Year: 2023, Demand: 12000, OpeningBalance: 0, ClosingBalance: 12000},
		{Month: 11, Year: 2023, Demand: 12000, OpeningBalance: 12000, ClosingBalance: 24000},
		{Month: 12, Year: 2023, Demand: 12000, OpeningBalance: 24000, ClosingBalance: 36000, OverdueAmount: 12000},
		{Month: 1, Year: 2024, Demand: 12000, OpeningBalance: 36000, ClosingBalance: 48000, OverdueAmount: 24000},
	}

	return map[model.Mode]model.UploadResponse{
		model.ModeLocalBody: withInterest(base, []float64{0, 0, 60, 120}, 48000),
		model.ModePrivate:   withInterest(base, []float64{0, 0, 240, 480}, 48000),
	}
}

func withInterest(base []model.ResultEntry, interest []float64, closing float64) model.UploadResponse {
	entries := make([]model.ResultEntry, len(base))
	var running float64
	for i, entry := range base {
		entry.Interest = interest[i]
		running += interest[i]
		entry.RunningInterest = running
		entries[i] = entry
	}

	return model.UploadResponse{
		Results:             entries,
		TotalClosingBalance: closing,
		TotalInterest:       running,
	}
}
