package main

import (
	"fmt"
	"time"

	"sahone-backend/internal/database"
	"sahone-backend/internal/models"
	"sahone-backend/internal/reports"

	"github.com/spf13/cobra"
)

var (
	reportDate  string
	reportStart string
	reportEnd   string
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Generate sales reports",
}

var reportDailyCmd = &cobra.Command{
	Use:   "daily",
	Short: "Generate the daily report (default: yesterday)",
	RunE: func(cmd *cobra.Command, args []string) error {
		if _, err := boot(); err != nil {
			return err
		}
		date := reportDate
		if date == "" {
			date = time.Now().AddDate(0, 0, -1).Format("2006-01-02")
		}
		r, err := reports.GenerateDaily(database.DB, date)
		if err != nil {
			return err
		}
		printReport(r)
		return nil
	},
}

var reportWeeklyCmd = &cobra.Command{
	Use:   "weekly",
	Short: "Generate the report for an inclusive date range",
	RunE: func(cmd *cobra.Command, args []string) error {
		if _, err := boot(); err != nil {
			return err
		}
		r, err := reports.GenerateWeekly(database.DB, reportStart, reportEnd)
		if err != nil {
			return err
		}
		printReport(r)
		return nil
	},
}

func init() {
	reportDailyCmd.Flags().StringVar(&reportDate, "date", "", "day as YYYY-MM-DD")
	reportWeeklyCmd.Flags().StringVar(&reportStart, "start", "", "first day as YYYY-MM-DD")
	reportWeeklyCmd.Flags().StringVar(&reportEnd, "end", "", "last day as YYYY-MM-DD")
	_ = reportWeeklyCmd.MarkFlagRequired("start")
	_ = reportWeeklyCmd.MarkFlagRequired("end")

	reportCmd.AddCommand(reportDailyCmd)
	reportCmd.AddCommand(reportWeeklyCmd)
}

func printReport(r *models.Report) {
	fmt.Printf("%s report %s: %d orders, %d delivered, revenue %.2f\n",
		r.ReportType, r.Date, r.TotalOrders, r.TotalDeliveries, r.TotalRevenue)
	for i, it := range r.TopSellingItems {
		fmt.Printf("  %2d. %s x%d\n", i+1, it.ItemName, it.Quantity)
	}
}
