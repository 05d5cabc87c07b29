package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"secureattend/internal/apperr"
	"secureattend/internal/attendance"
	"secureattend/internal/code"
	"secureattend/internal/config"
	"secureattend/internal/directory"
	"secureattend/internal/geo"
	"secureattend/internal/ledger"
	"secureattend/internal/snapshot"
)

// attend is the interactive console flow: login, location check, code,
// camera snapshot, ledger append. One session per run.
func main() {
	cfg := config.Load()
	ctx := context.Background()
	in := bufio.NewReader(os.Stdin)

	registry := directory.NewFileRegistry(cfg.StudentsFile)

	var camCmd string
	var camArgs []string
	if fields := strings.Fields(cfg.CameraCommand); len(fields) > 0 {
		camCmd, camArgs = fields[0], fields[1:]
	}

	svc := attendance.NewService(attendance.Options{
		Registry:  registry,
		Codes:     code.NewFileStore(cfg.ActiveCodeFile, cfg.HistoryFile),
		Ledger:    ledger.NewCSVLedger(cfg.AttendanceFile),
		Snaps:     snapshot.NewStore(cfg.SnapshotDir),
		Camera:    snapshot.NewExecCamera(camCmd, camArgs...),
		Classroom: geo.Point{Lat: cfg.ClassroomLat, Lon: cfg.ClassroomLon},
		RadiusM:   cfg.AllowedRadiusM,
		Validity:  cfg.CodeValidity,
	})

	fmt.Println("Student Login")
	rollNo := prompt(in, "Enter Roll No: ")
	password := prompt(in, "Enter Password: ")

	student, err := registry.Authenticate(ctx, rollNo, password)
	if err != nil {
		if errors.Is(err, apperr.ErrAuthentication) {
			fail("Login failed. Check Roll No or Password.")
		}
		fail(apperr.FromError(err).Message)
	}
	fmt.Printf("Login successful! Welcome %s\n", student.Name)

	fmt.Println("Classroom Location Verification")
	lat, ok := promptFloat(in, "Enter your current latitude: ")
	if !ok {
		fail("Invalid coordinates.")
	}
	lon, ok := promptFloat(in, "Enter your current longitude: ")
	if !ok {
		fail("Invalid coordinates.")
	}

	submitted := prompt(in, "Enter Attendance Code: ")

	fmt.Println("Capturing snapshot. Please look at the camera...")
	rec, err := svc.MarkConsole(ctx, student.RollNo, student.Name, submitted, lat, lon)
	if err != nil {
		if errors.Is(err, apperr.ErrLocationOutOfRange) {
			fail(fmt.Sprintf("You are too far from the classroom! Distance: %d meters", int(svc.Distance(lat, lon))))
		}
		fail(apperr.FromError(err).Message)
	}

	fmt.Printf("Snapshot saved: %s\n", rec.Snapshot)
	fmt.Println("Attendance marked successfully!")
}

func prompt(in *bufio.Reader, label string) string {
	fmt.Print(label)
	line, _ := in.ReadString('\n')
	return strings.TrimSpace(line)
}

// promptFloat rejects malformed coordinates before they reach the
// distance check.
func promptFloat(in *bufio.Reader, label string) (float64, bool) {
	v, err := strconv.ParseFloat(prompt(in, label), 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

func fail(msg string) {
	fmt.Println(msg)
	os.Exit(1)
}
