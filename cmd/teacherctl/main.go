package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"secureattend/internal/code"
	"secureattend/internal/config"
	"secureattend/internal/ledger"
)

// teacherctl manages the console variant from the teacher's side:
// issue a fresh attendance code, or view what has been recorded.
func main() {
	if len(os.Args) < 2 {
		usage()
	}

	cfg := config.Load()
	ctx := context.Background()

	switch os.Args[1] {
	case "issue":
		runIssue(ctx, cfg)
	case "view":
		date := ""
		if len(os.Args) > 2 {
			date = os.Args[2]
		}
		runView(ctx, cfg, date)
	default:
		usage()
	}
}

func runIssue(ctx context.Context, cfg config.App) {
	store := code.NewFileStore(cfg.ActiveCodeFile, cfg.HistoryFile)
	active, err := code.Issue(ctx, store, time.Now())
	if err != nil {
		fatal(err)
	}
	fmt.Printf("Attendance code generated: %s\n", active.Code)
	fmt.Printf("Valid for %s (until %s)\n", cfg.CodeValidity, active.ExpiresAt(cfg.CodeValidity).Format(code.TimeLayout))
}

func runView(ctx context.Context, cfg config.App, date string) {
	led := ledger.NewCSVLedger(cfg.AttendanceFile)
	records, err := led.ListByDate(ctx, date)
	if err != nil {
		fatal(err)
	}
	if len(records) == 0 {
		fmt.Println("No attendance records found.")
		return
	}
	fmt.Printf("%-12s %-10s %-20s %-8s %-20s %s\n",
		"Date", "Roll No", "Name", "Code", "Timestamp", "Snapshot")
	for _, r := range records {
		fmt.Printf("%-12s %-10s %-20s %-8s %-20s %s\n",
			r.Date, r.RollNo, r.Name, r.Code, r.MarkedAt.Format(ledger.TimestampLayout), r.Snapshot)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, "usage: teacherctl issue | teacherctl view [YYYY-MM-DD]")
	os.Exit(2)
}

func fatal(err error) {
	fmt.Fprintln(os.Stderr, "error:", err)
	os.Exit(1)
}
