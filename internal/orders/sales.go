package orders

import (
	"context"
	"time"

	"perfume-backend/internal/models"
)

const salesWindowDays = 7

var frenchWeekdays = [...]string{
	time.Sunday:    "dimanche",
	time.Monday:    "lundi",
	time.Tuesday:   "mardi",
	time.Wednesday: "mercredi",
	time.Thursday:  "jeudi",
	time.Friday:    "vendredi",
	time.Saturday:  "samedi",
}

func dayLabel(day time.Time) string {
	return frenchWeekdays[day.Weekday()] + " " + day.Format("02/01")
}

// GetWeeklySales totals delivered orders per day for today and the six days
// before it, oldest first. Days without sales are reported as zero.
func (s *Service) GetWeeklySales(ctx context.Context) ([]models.DailySales, error) {
	delivered, err := s.orders.ListOrdersWithStatus(ctx, models.StatusDelivered)
	if err != nil {
		return nil, err
	}

	now := s.now()
	loc := now.Location()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, loc)
	first := today.AddDate(0, 0, -(salesWindowDays - 1))

	days := make([]models.DailySales, salesWindowDays)
	index := make(map[string]int, salesWindowDays)
	for i := range days {
		day := first.AddDate(0, 0, i)
		key := day.Format("2006-01-02")
		days[i] = models.DailySales{Label: dayLabel(day), Date: key}
		index[key] = i
	}

	for _, order := range delivered {
		key := order.EffectiveDate().In(loc).Format("2006-01-02")
		i, ok := index[key]
		if !ok {
			continue
		}
		days[i].TotalSales = days[i].TotalSales.Plus(order.TotalAmount)
		days[i].OrderCount++
	}
	return days, nil
}
