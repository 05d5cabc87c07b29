// Package handler exposes the marking flow and the teacher endpoints
// over HTTP.
package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"secureattend/internal/apperr"
	"secureattend/internal/attendance"
	"secureattend/internal/auth"
	"secureattend/internal/code"
	"secureattend/internal/directory"
	"secureattend/internal/ledger"
	"secureattend/internal/queue"
)

// TeacherAuthenticator checks teacher logins.
type TeacherAuthenticator interface {
	AuthenticateTeacher(ctx context.Context, teacherID, password string) (*directory.Teacher, error)
}

// AuthConfig carries the token-issuance settings.
type AuthConfig struct {
	Issuer     string
	SigningKey string
	AccessTTL  time.Duration
	RefreshTTL time.Duration
}

// Handler wires the marking service and teacher operations into gin.
type Handler struct {
	svc      *attendance.Service
	codes    code.Store
	ledger   ledger.Ledger
	teachers TeacherAuthenticator
	q        queue.Queue // nil when snapshot mirroring is off
	authCfg  AuthConfig
	validity time.Duration
	log      *zap.Logger
}

// New creates a handler.
func New(svc *attendance.Service, codes code.Store, led ledger.Ledger, teachers TeacherAuthenticator,
	q queue.Queue, authCfg AuthConfig, validity time.Duration, log *zap.Logger) *Handler {
	if validity <= 0 {
		validity = code.DefaultValidity
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Handler{
		svc: svc, codes: codes, ledger: led, teachers: teachers,
		q: q, authCfg: authCfg, validity: validity, log: log,
	}
}

// Register mounts all routes on the engine.
func (h *Handler) Register(r *gin.Engine) {
	r.POST("/student/mark_attendance", h.MarkAttendance)
	r.POST("/teacher/login", h.TeacherLogin)

	teacherGroup := r.Group("/teacher", auth.TeacherAuth(h.authCfg.SigningKey, h.authCfg.Issuer))
	teacherGroup.POST("/code", h.IssueCode)
	teacherGroup.GET("/attendance", h.ListAttendance)
}

type markRequest struct {
	RollNo    string  `json:"roll_no" binding:"required"`
	ClassCode string  `json:"class_code" binding:"required"`
	GPSLat    float64 `json:"gps_lat"`
	GPSLon    float64 `json:"gps_lon"`
	Snapshot  string  `json:"snapshot" binding:"required"`
}

// MarkAttendance runs one attempt and answers with {status, msg}.
func (h *Handler) MarkAttendance(c *gin.Context) {
	var req markRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "msg": err.Error()})
		return
	}

	rec, err := h.svc.MarkRemote(c.Request.Context(), attendance.RemoteRequest{
		RollNo:      req.RollNo,
		Code:        req.ClassCode,
		Lat:         req.GPSLat,
		Lon:         req.GPSLon,
		SnapshotB64: req.Snapshot,
	})
	if err != nil {
		h.reject(c, req.RollNo, err)
		return
	}

	markedTotal.Inc()
	h.log.Info("attendance marked",
		zap.String("roll_no", rec.RollNo),
		zap.String("code", rec.Code),
		zap.String("snapshot", rec.Snapshot))

	if h.q != nil {
		if err := h.q.Publish(c.Request.Context(), queue.Message{Type: queue.TypeArchive, Body: []byte(rec.ID)}); err != nil {
			h.log.Warn("archive publish failed", zap.String("record_id", rec.ID), zap.Error(err))
		}
	}

	c.JSON(http.StatusOK, gin.H{"status": "success", "msg": "Attendance marked"})
}

func (h *Handler) reject(c *gin.Context, rollNo string, err error) {
	appErr := apperr.FromError(err)
	rejectedTotal.WithLabelValues(appErr.Code).Inc()
	if appErr.Status >= http.StatusInternalServerError {
		h.log.Error("attempt failed", zap.String("roll_no", rollNo), zap.Error(err))
	} else {
		h.log.Info("attempt rejected", zap.String("roll_no", rollNo), zap.String("reason", appErr.Code))
	}
	c.JSON(appErr.Status, gin.H{"status": "error", "msg": appErr.Message})
}

type teacherLoginRequest struct {
	TeacherID string `json:"teacher_id" binding:"required"`
	Password  string `json:"password" binding:"required"`
}

// TeacherLogin authenticates a teacher and issues a token pair.
func (h *Handler) TeacherLogin(c *gin.Context) {
	var req teacherLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "msg": err.Error()})
		return
	}

	teacher, err := h.teachers.AuthenticateTeacher(c.Request.Context(), req.TeacherID, req.Password)
	if err != nil {
		h.reject(c, req.TeacherID, err)
		return
	}

	tokens, err := auth.Issue(teacher.TeacherID, auth.RoleTeacher, h.authCfg.Issuer, h.authCfg.SigningKey,
		h.authCfg.AccessTTL, h.authCfg.RefreshTTL)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "msg": "token issue failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"access_token":  tokens.AccessToken,
		"refresh_token": tokens.RefreshToken,
		"expires_at":    tokens.AccessExp.Unix(),
	})
}

// IssueCode generates and activates a fresh attendance code.
func (h *Handler) IssueCode(c *gin.Context) {
	ac, err := code.Issue(c.Request.Context(), h.codes, time.Now())
	if err != nil {
		h.log.Error("code issuance failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "msg": "code issuance failed"})
		return
	}

	h.log.Info("code issued", zap.Time("issued_at", ac.IssuedAt))
	c.JSON(http.StatusCreated, gin.H{
		"code":       ac.Code,
		"issued_at":  ac.IssuedAt.Format(code.TimeLayout),
		"expires_at": ac.ExpiresAt(h.validity).Format(code.TimeLayout),
	})
}

type attendanceItem struct {
	Date     string  `json:"date"`
	RollNo   string  `json:"roll_no"`
	Name     string  `json:"name"`
	Code     string  `json:"code"`
	MarkedAt string  `json:"marked_at"`
	Snapshot string  `json:"snapshot"`
	GPSLat   float64 `json:"gps_lat"`
	GPSLon   float64 `json:"gps_lon"`
}

// ListAttendance returns the ledger for one date (?date=YYYY-MM-DD), or
// everything when the date is omitted.
func (h *Handler) ListAttendance(c *gin.Context) {
	date := c.Query("date")
	recs, err := h.ledger.ListByDate(c.Request.Context(), date)
	if err != nil {
		h.reject(c, "", err)
		return
	}

	items := make([]attendanceItem, 0, len(recs))
	for _, rec := range recs {
		items = append(items, attendanceItem{
			Date:     rec.Date,
			RollNo:   rec.RollNo,
			Name:     rec.Name,
			Code:     rec.Code,
			MarkedAt: rec.MarkedAt.Format(ledger.TimestampLayout),
			Snapshot: rec.Snapshot,
			GPSLat:   rec.Lat,
			GPSLon:   rec.Lon,
		})
	}
	c.JSON(http.StatusOK, gin.H{"records": items})
}
