package handler

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	markedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "secureattend_marked_total",
		Help: "Attendance records created.",
	})
	rejectedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "secureattend_rejected_total",
		Help: "Attendance attempts rejected, by reason code.",
	}, []string{"reason"})
)
