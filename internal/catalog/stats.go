package catalog

import "github.com/varoOP/animecatalog/internal/domain"

// calculateStatistics counts the catalog by genre, season and year
func calculateStatistics(anime []domain.Anime) domain.Statistics {
	stats := domain.Statistics{
		Total:    len(anime),
		ByGenre:  make(map[string]int),
		BySeason: make(map[string]int),
		ByYear:   make(map[int]int),
	}

	var ratingSum float64
	for _, a := range anime {
		for _, g := range a.Genres {
			stats.ByGenre[g]++
		}
		stats.BySeason[a.Season]++
		stats.ByYear[a.Year]++
		ratingSum += a.Rating

		if a.ID > stats.MaxID {
			stats.MaxID = a.ID
		}
	}

	if stats.Total > 0 {
		stats.AverageRating = ratingSum / float64(stats.Total)
	}

	return stats
}
