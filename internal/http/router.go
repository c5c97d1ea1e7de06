package http

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/milbratheduardo/App-ZSUL-sub000/internal/authctx"
	"github.com/milbratheduardo/App-ZSUL-sub000/internal/config"
	"github.com/milbratheduardo/App-ZSUL-sub000/internal/domain/account"
	"github.com/milbratheduardo/App-ZSUL-sub000/internal/domain/attendance"
	"github.com/milbratheduardo/App-ZSUL-sub000/internal/domain/event"
	"github.com/milbratheduardo/App-ZSUL-sub000/internal/domain/gallery"
	"github.com/milbratheduardo/App-ZSUL-sub000/internal/domain/identity"
	"github.com/milbratheduardo/App-ZSUL-sub000/internal/domain/methodology"
	"github.com/milbratheduardo/App-ZSUL-sub000/internal/domain/news"
	"github.com/milbratheduardo/App-ZSUL-sub000/internal/domain/notifications"
	"github.com/milbratheduardo/App-ZSUL-sub000/internal/domain/payment"
	"github.com/milbratheduardo/App-ZSUL-sub000/internal/domain/profile"
	"github.com/milbratheduardo/App-ZSUL-sub000/internal/domain/report"
	"github.com/milbratheduardo/App-ZSUL-sub000/internal/domain/roster"
	"github.com/milbratheduardo/App-ZSUL-sub000/internal/domain/stats"
	"github.com/milbratheduardo/App-ZSUL-sub000/internal/domain/support"
	"github.com/milbratheduardo/App-ZSUL-sub000/internal/domain/training"
	"github.com/milbratheduardo/App-ZSUL-sub000/internal/domain/turma"
	"github.com/milbratheduardo/App-ZSUL-sub000/internal/middleware"
	"github.com/milbratheduardo/App-ZSUL-sub000/internal/realtime"
)

type RouterDeps struct {
	Cfg      config.Config
	Reporter middleware.Reporter
	Realtime *realtime.Handler

	AccountSvc       *account.Service
	ProfileSvc       *profile.Service
	TurmaSvc         *turma.Service
	AttendanceSvc    *attendance.Service
	RosterSvc        *roster.Service
	EventSvc         *event.Service
	GallerySvc       *gallery.Service
	ReportSvc        *report.Service
	TrainingSvc      *training.Service
	MethodologySvc   *methodology.Service
	NewsSvc          *news.Service
	NotificationsSvc *notifications.Service
	StatsSvc         *stats.Service
	PaymentSvc       *payment.Service
	SupportSvc       *support.Service
}

func NewRouter(d RouterDeps) http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.Recoverer(d.Reporter))
	r.Use(middleware.CORS(d.Cfg.AllowedOrigins))
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		WriteJSON(w, 200, map[string]any{"ok": true, "build": d.Cfg.Build, "ts": time.Now().UTC().Format(time.RFC3339)})
	})

	// ===== Stripe Webhook (no auth required) =====
	r.Post("/v1/stripe/webhook", d.PaymentSvc.HandleWebhook)

	// ===== Auth (public) =====
	r.Post("/v1/auth/signup", func(w http.ResponseWriter, r *http.Request) {
		var in account.SignUpInput
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
			Fail(w, 400, "invalid json")
			return
		}
		out, err := d.AccountSvc.SignUp(r.Context(), in)
		if err != nil {
			status, msg := mapAccountError(err)
			Fail(w, status, msg)
			return
		}
		WriteJSON(w, 201, out)
	})

	r.Post("/v1/auth/login", func(w http.ResponseWriter, r *http.Request) {
		var in account.LoginInput
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
			Fail(w, 400, "invalid json")
			return
		}
		out, err := d.AccountSvc.Login(r.Context(), in)
		if err != nil {
			status, msg := mapAccountError(err)
			Fail(w, status, msg)
			return
		}
		WriteJSON(w, 200, out)
	})

	r.Post("/v1/auth/password/forgot", func(w http.ResponseWriter, r *http.Request) {
		var in account.ForgotPasswordInput
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
			Fail(w, 400, "invalid json")
			return
		}
		if err := d.AccountSvc.RequestPasswordReset(r.Context(), in); err != nil {
			status, msg := mapAccountError(err)
			Fail(w, status, msg)
			return
		}
		WriteJSON(w, 202, map[string]any{"ok": true})
	})

	r.Post("/v1/auth/password/reset", func(w http.ResponseWriter, r *http.Request) {
		var in account.ResetPasswordInput
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
			Fail(w, 400, "invalid json")
			return
		}
		if err := d.AccountSvc.ResetPassword(r.Context(), in); err != nil {
			status, msg := mapAccountError(err)
			Fail(w, status, msg)
			return
		}
		WriteJSON(w, 200, map[string]any{"ok": true})
	})

	// ===== Realtime =====
	r.With(middleware.WithQueryAuth(d.AccountSvc)).Get("/v1/ws", func(w http.ResponseWriter, r *http.Request) {
		uid, _ := authctx.UID(r.Context())
		d.Realtime.Serve(w, r, realtime.UserRoom(uid), realtime.RoomEvents, realtime.RoomNews)
	})

	// Protected routes
	r.Group(func(pr chi.Router) {
		pr.Use(middleware.WithAuth(d.AccountSvc))

		pr.Delete("/v1/auth/session", func(w http.ResponseWriter, r *http.Request) {
			if err := d.AccountSvc.Logout(r.Context(), authctx.Token(r.Context())); err != nil {
				status, msg := mapAccountError(err)
				Fail(w, status, msg)
				return
			}
			WriteJSON(w, 200, map[string]any{"ok": true})
		})

		// ===== Me =====
		pr.Get("/v1/me", func(w http.ResponseWriter, r *http.Request) {
			p, _ := authctx.Profile(r.Context())
			url, err := d.ProfileSvc.AvatarURL(r.Context(), avatarOf(p))
			if err != nil {
				url = ""
			}
			WriteJSON(w, 200, map[string]any{"profile": p, "avatarUrl": url})
		})

		pr.Put("/v1/me/profile", func(w http.ResponseWriter, r *http.Request) {
			var in map[string]any
			if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
				Fail(w, 400, "invalid json")
				return
			}
			if err := d.ProfileSvc.UpdateOwn(r.Context(), authctx.Viewer(r.Context()), in); err != nil {
				status, msg := mapProfileError(err)
				Fail(w, status, msg)
				return
			}
			WriteJSON(w, 200, map[string]any{"success": true})
		})

		pr.Post("/v1/me/avatar", func(w http.ResponseWriter, r *http.Request) {
			var meta struct{}
			files, err := readForm(r, &meta, "avatar")
			if err != nil || len(files) == 0 {
				Fail(w, 400, "avatar file required")
				return
			}
			defer closeAll(files)

			fileID, err := d.ProfileSvc.SetAvatar(r.Context(), authctx.Viewer(r.Context()), files[0])
			if err != nil {
				status, msg := mapProfileError(err)
				Fail(w, status, msg)
				return
			}
			url, _ := d.ProfileSvc.AvatarURL(r.Context(), fileID)
			WriteJSON(w, 200, map[string]any{"avatar": fileID, "avatarUrl": url})
		})

		// ===== Users / Profiles =====
		pr.With(middleware.RequireAdmin).Get("/v1/users", func(w http.ResponseWriter, r *http.Request) {
			q := r.URL.Query()
			out, err := d.ProfileSvc.ListUsers(r.Context(), authctx.Viewer(r.Context()), q.Get("role"), q.Get("status"))
			if err != nil {
				status, msg := mapProfileError(err)
				Fail(w, status, msg)
				return
			}
			WriteJSON(w, 200, out)
		})

		pr.With(middleware.RequireAdmin).Post("/v1/users/{userId}/archive", func(w http.ResponseWriter, r *http.Request) {
			if err := d.ProfileSvc.Archive(r.Context(), authctx.Viewer(r.Context()), chi.URLParam(r, "userId")); err != nil {
				status, msg := mapProfileError(err)
				Fail(w, status, msg)
				return
			}
			WriteJSON(w, 200, map[string]any{"success": true})
		})

		pr.With(middleware.RequireAdmin).Post("/v1/users/{userId}/restore", func(w http.ResponseWriter, r *http.Request) {
			if err := d.ProfileSvc.Restore(r.Context(), authctx.Viewer(r.Context()), chi.URLParam(r, "userId")); err != nil {
				status, msg := mapProfileError(err)
				Fail(w, status, msg)
				return
			}
			WriteJSON(w, 200, map[string]any{"success": true})
		})

		pr.Get("/v1/professionals", func(w http.ResponseWriter, r *http.Request) {
			out, err := d.ProfileSvc.Professionals(r.Context())
			if err != nil {
				status, msg := mapProfileError(err)
				Fail(w, status, msg)
				return
			}
			WriteJSON(w, 200, out)
		})

		pr.Get("/v1/athletes", func(w http.ResponseWriter, r *http.Request) {
			out, err := d.ProfileSvc.Athletes(r.Context(), authctx.Viewer(r.Context()))
			if err != nil {
				status, msg := mapProfileError(err)
				Fail(w, status, msg)
				return
			}
			WriteJSON(w, 200, out)
		})

		pr.Get("/v1/athletes/{userId}", func(w http.ResponseWriter, r *http.Request) {
			out, err := d.ProfileSvc.Athlete(r.Context(), authctx.Viewer(r.Context()), chi.URLParam(r, "userId"))
			if err != nil {
				status, msg := mapProfileError(err)
				Fail(w, status, msg)
				return
			}
			WriteJSON(w, 200, out)
		})

		pr.Put("/v1/athletes/{userId}", func(w http.ResponseWriter, r *http.Request) {
			var in map[string]any
			if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
				Fail(w, 400, "invalid json")
				return
			}
			out, err := d.ProfileSvc.UpdateAthlete(r.Context(), authctx.Viewer(r.Context()), chi.URLParam(r, "userId"), in)
			if err != nil {
				status, msg := mapProfileError(err)
				Fail(w, status, msg)
				return
			}
			WriteJSON(w, 200, out)
		})

		pr.Post("/v1/athletes/{userId}/guardian", func(w http.ResponseWriter, r *http.Request) {
			var in struct {
				GuardianID string `json:"guardianId"`
			}
			if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
				Fail(w, 400, "invalid json")
				return
			}
			err := d.ProfileSvc.LinkGuardian(r.Context(), authctx.Viewer(r.Context()), chi.URLParam(r, "userId"), strings.TrimSpace(in.GuardianID))
			if err != nil {
				status, msg := mapProfileError(err)
				Fail(w, status, msg)
				return
			}
			WriteJSON(w, 200, map[string]any{"success": true})
		})

		pr.Get("/v1/athletes/{userId}/attendance", func(w http.ResponseWriter, r *http.Request) {
			out, err := d.RosterSvc.AthleteAttendance(r.Context(), authctx.Viewer(r.Context()), chi.URLParam(r, "userId"))
			if err != nil {
				status, msg := mapRosterError(err)
				Fail(w, status, msg)
				return
			}
			WriteJSON(w, 200, out)
		})

		pr.Get("/v1/guardians/{userId}/athletes", func(w http.ResponseWriter, r *http.Request) {
			out, err := d.ProfileSvc.GuardianAthletes(r.Context(), authctx.Viewer(r.Context()), chi.URLParam(r, "userId"))
			if err != nil {
				status, msg := mapProfileError(err)
				Fail(w, status, msg)
				return
			}
			WriteJSON(w, 200, out)
		})

		// ===== Turmas =====
		pr.Get("/v1/turmas", func(w http.ResponseWriter, r *http.Request) {
			out, err := d.TurmaSvc.List(r.Context())
			if err != nil {
				status, msg := mapTurmaError(err)
				Fail(w, status, msg)
				return
			}
			WriteJSON(w, 200, out)
		})

		pr.Post("/v1/turmas", func(w http.ResponseWriter, r *http.Request) {
			var in turma.CreateInput
			if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
				Fail(w, 400, "invalid json")
				return
			}
			out, err := d.TurmaSvc.Create(r.Context(), authctx.Viewer(r.Context()), in)
			if err != nil {
				status, msg := mapTurmaError(err)
				Fail(w, status, msg)
				return
			}
			WriteJSON(w, 201, out)
		})

		pr.Get("/v1/turmas/{turmaId}", func(w http.ResponseWriter, r *http.Request) {
			out, err := d.TurmaSvc.Get(r.Context(), chi.URLParam(r, "turmaId"))
			if err != nil {
				status, msg := mapTurmaError(err)
				Fail(w, status, msg)
				return
			}
			WriteJSON(w, 200, out)
		})

		pr.Put("/v1/turmas/{turmaId}", func(w http.ResponseWriter, r *http.Request) {
			var in turma.UpdateInput
			if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
				Fail(w, 400, "invalid json")
				return
			}
			out, err := d.TurmaSvc.Update(r.Context(), authctx.Viewer(r.Context()), chi.URLParam(r, "turmaId"), in)
			if err != nil {
				status, msg := mapTurmaError(err)
				Fail(w, status, msg)
				return
			}
			WriteJSON(w, 200, out)
		})

		pr.Delete("/v1/turmas/{turmaId}", func(w http.ResponseWriter, r *http.Request) {
			if err := d.TurmaSvc.Delete(r.Context(), authctx.Viewer(r.Context()), chi.URLParam(r, "turmaId")); err != nil {
				status, msg := mapTurmaError(err)
				Fail(w, status, msg)
				return
			}
			WriteJSON(w, 200, map[string]any{"success": true})
		})

		pr.Get("/v1/turmas/{turmaId}/members", func(w http.ResponseWriter, r *http.Request) {
			out, err := d.TurmaSvc.Members(r.Context(), chi.URLParam(r, "turmaId"))
			if err != nil {
				status, msg := mapTurmaError(err)
				Fail(w, status, msg)
				return
			}
			WriteJSON(w, 200, out)
		})

		pr.Post("/v1/turmas/{turmaId}/members", func(w http.ResponseWriter, r *http.Request) {
			var in struct {
				AthleteID string `json:"athleteId"`
			}
			if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
				Fail(w, 400, "invalid json")
				return
			}
			err := d.TurmaSvc.EnrollAthlete(r.Context(), authctx.Viewer(r.Context()), chi.URLParam(r, "turmaId"), strings.TrimSpace(in.AthleteID))
			if err != nil {
				status, msg := mapTurmaError(err)
				Fail(w, status, msg)
				return
			}
			WriteJSON(w, 201, map[string]any{"success": true})
		})

		pr.Delete("/v1/turmas/{turmaId}/members/{athleteId}", func(w http.ResponseWriter, r *http.Request) {
			err := d.TurmaSvc.UnassignAthlete(r.Context(), authctx.Viewer(r.Context()), chi.URLParam(r, "turmaId"), chi.URLParam(r, "athleteId"))
			if err != nil {
				status, msg := mapTurmaError(err)
				Fail(w, status, msg)
				return
			}
			WriteJSON(w, 200, map[string]any{"success": true})
		})

		// ===== Roster / Dashboard =====
		pr.Get("/v1/roster", func(w http.ResponseWriter, r *http.Request) {
			q := r.URL.Query()
			out, err := d.RosterSvc.Build(r.Context(), authctx.Viewer(r.Context()), q.Get("day"), roster.ParseSort(q.Get("sort")))
			if err != nil {
				status, msg := mapRosterError(err)
				Fail(w, status, msg)
				return
			}
			WriteJSON(w, 200, out)
		})

		pr.Get("/v1/schedule/week", func(w http.ResponseWriter, r *http.Request) {
			out, err := d.RosterSvc.Week(r.Context(), authctx.Viewer(r.Context()), time.Now())
			if err != nil {
				status, msg := mapRosterError(err)
				Fail(w, status, msg)
				return
			}
			WriteJSON(w, 200, out)
		})

		pr.Get("/v1/dashboard", func(w http.ResponseWriter, r *http.Request) {
			out, err := d.StatsSvc.GetDashboard(r.Context(), authctx.Viewer(r.Context()), time.Now())
			if err != nil {
				status, msg := mapStatsError(err)
				Fail(w, status, msg)
				return
			}
			WriteJSON(w, 200, out)
		})

		// ===== Chamadas =====
		pr.Get("/v1/turmas/{turmaId}/chamadas", func(w http.ResponseWriter, r *http.Request) {
			out, err := d.AttendanceSvc.ListByClass(r.Context(), authctx.Viewer(r.Context()), chi.URLParam(r, "turmaId"))
			if err != nil {
				status, msg := mapAttendanceError(err)
				Fail(w, status, msg)
				return
			}
			WriteJSON(w, 200, out)
		})

		pr.Post("/v1/turmas/{turmaId}/chamadas", func(w http.ResponseWriter, r *http.Request) {
			var in attendance.RecordInput
			if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
				Fail(w, 400, "invalid json")
				return
			}
			out, err := d.AttendanceSvc.Record(r.Context(), authctx.Viewer(r.Context()), chi.URLParam(r, "turmaId"), in)
			if err != nil {
				status, msg := mapAttendanceError(err)
				Fail(w, status, msg)
				return
			}
			WriteJSON(w, 201, out)
		})

		pr.Get("/v1/chamadas/{chamadaId}", func(w http.ResponseWriter, r *http.Request) {
			out, err := d.RosterSvc.Chamada(r.Context(), authctx.Viewer(r.Context()), chi.URLParam(r, "chamadaId"))
			if err != nil {
				status, msg := mapRosterError(err)
				Fail(w, status, msg)
				return
			}
			WriteJSON(w, 200, out)
		})

		pr.Put("/v1/chamadas/{chamadaId}", func(w http.ResponseWriter, r *http.Request) {
			var in attendance.UpdateInput
			if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
				Fail(w, 400, "invalid json")
				return
			}
			out, err := d.AttendanceSvc.Update(r.Context(), authctx.Viewer(r.Context()), chi.URLParam(r, "chamadaId"), in)
			if err != nil {
				status, msg := mapAttendanceError(err)
				Fail(w, status, msg)
				return
			}
			WriteJSON(w, 200, out)
		})

		pr.Delete("/v1/chamadas/{chamadaId}", func(w http.ResponseWriter, r *http.Request) {
			if err := d.AttendanceSvc.Delete(r.Context(), authctx.Viewer(r.Context()), chi.URLParam(r, "chamadaId")); err != nil {
				status, msg := mapAttendanceError(err)
				Fail(w, status, msg)
				return
			}
			WriteJSON(w, 200, map[string]any{"success": true})
		})

		// ===== Events =====
		pr.Get("/v1/events", func(w http.ResponseWriter, r *http.Request) {
			out, err := d.EventSvc.List(r.Context())
			if err != nil {
				status, msg := mapEventError(err)
				Fail(w, status, msg)
				return
			}
			WriteJSON(w, 200, out)
		})

		pr.Post("/v1/events", func(w http.ResponseWriter, r *http.Request) {
			var in event.CreateInput
			files, err := readForm(r, &in, "image")
			if err != nil {
				Fail(w, 400, "invalid request body")
				return
			}
			defer closeAll(files)

			out, err := d.EventSvc.Create(r.Context(), authctx.Viewer(r.Context()), in, first(files))
			if err != nil {
				status, msg := mapEventError(err)
				Fail(w, status, msg)
				return
			}
			WriteJSON(w, 201, out)
		})

		pr.Get("/v1/events/{eventId}", func(w http.ResponseWriter, r *http.Request) {
			out, err := d.EventSvc.Get(r.Context(), chi.URLParam(r, "eventId"))
			if err != nil {
				status, msg := mapEventError(err)
				Fail(w, status, msg)
				return
			}
			WriteJSON(w, 200, out)
		})

		pr.Put("/v1/events/{eventId}", func(w http.ResponseWriter, r *http.Request) {
			var in event.UpdateInput
			files, err := readForm(r, &in, "image")
			if err != nil {
				Fail(w, 400, "invalid request body")
				return
			}
			defer closeAll(files)

			out, err := d.EventSvc.Update(r.Context(), authctx.Viewer(r.Context()), chi.URLParam(r, "eventId"), in, first(files))
			if err != nil {
				status, msg := mapEventError(err)
				Fail(w, status, msg)
				return
			}
			WriteJSON(w, 200, out)
		})

		pr.Delete("/v1/events/{eventId}", func(w http.ResponseWriter, r *http.Request) {
			if err := d.EventSvc.Delete(r.Context(), authctx.Viewer(r.Context()), chi.URLParam(r, "eventId")); err != nil {
				status, msg := mapEventError(err)
				Fail(w, status, msg)
				return
			}
			WriteJSON(w, 200, map[string]any{"success": true})
		})

		pr.Post("/v1/events/{eventId}/rsvp", func(w http.ResponseWriter, r *http.Request) {
			out, err := d.EventSvc.Confirm(r.Context(), authctx.Viewer(r.Context()), chi.URLParam(r, "eventId"))
			if err != nil {
				status, msg := mapEventError(err)
				Fail(w, status, msg)
				return
			}
			WriteJSON(w, 200, out)
		})

		pr.Delete("/v1/events/{eventId}/rsvp", func(w http.ResponseWriter, r *http.Request) {
			out, err := d.EventSvc.Cancel(r.Context(), authctx.Viewer(r.Context()), chi.URLParam(r, "eventId"))
			if err != nil {
				status, msg := mapEventError(err)
				Fail(w, status, msg)
				return
			}
			WriteJSON(w, 200, out)
		})

		// ===== Gallery =====
		pr.Get("/v1/gallery", func(w http.ResponseWriter, r *http.Request) {
			out, err := d.GallerySvc.List(r.Context())
			if err != nil {
				status, msg := mapGalleryError(err)
				Fail(w, status, msg)
				return
			}
			WriteJSON(w, 200, out)
		})

		pr.Post("/v1/gallery", func(w http.ResponseWriter, r *http.Request) {
			var in struct {
				Title string `json:"title"`
			}
			files, err := readForm(r, &in, "image")
			if err != nil || len(files) == 0 {
				Fail(w, 400, "image file required")
				return
			}
			defer closeAll(files)
			if in.Title == "" {
				in.Title = r.FormValue("title")
			}

			out, err := d.GallerySvc.Upload(r.Context(), authctx.Viewer(r.Context()), in.Title, files[0])
			if err != nil {
				status, msg := mapGalleryError(err)
				Fail(w, status, msg)
				return
			}
			WriteJSON(w, 201, out)
		})

		pr.Delete("/v1/gallery/{imageId}", func(w http.ResponseWriter, r *http.Request) {
			if err := d.GallerySvc.Delete(r.Context(), authctx.Viewer(r.Context()), chi.URLParam(r, "imageId")); err != nil {
				status, msg := mapGalleryError(err)
				Fail(w, status, msg)
				return
			}
			WriteJSON(w, 200, map[string]any{"success": true})
		})

		// ===== Reports =====
		pr.Get("/v1/reports", func(w http.ResponseWriter, r *http.Request) {
			q := r.URL.Query()
			out, err := d.ReportSvc.List(r.Context(), authctx.Viewer(r.Context()), q.Get("turmaId"), q.Get("author"))
			if err != nil {
				status, msg := mapReportError(err)
				Fail(w, status, msg)
				return
			}
			WriteJSON(w, 200, out)
		})

		pr.Post("/v1/reports", func(w http.ResponseWriter, r *http.Request) {
			var in report.CreateInput
			files, err := readForm(r, &in, "images")
			if err != nil {
				Fail(w, 400, "invalid request body")
				return
			}
			defer closeAll(files)

			out, err := d.ReportSvc.Create(r.Context(), authctx.Viewer(r.Context()), in, readers(files))
			if err != nil {
				status, msg := mapReportError(err)
				Fail(w, status, msg)
				return
			}
			WriteJSON(w, 201, out)
		})

		pr.Get("/v1/reports/{reportId}", func(w http.ResponseWriter, r *http.Request) {
			out, err := d.ReportSvc.Get(r.Context(), authctx.Viewer(r.Context()), chi.URLParam(r, "reportId"))
			if err != nil {
				status, msg := mapReportError(err)
				Fail(w, status, msg)
				return
			}
			WriteJSON(w, 200, out)
		})

		pr.Delete("/v1/reports/{reportId}", func(w http.ResponseWriter, r *http.Request) {
			if err := d.ReportSvc.Delete(r.Context(), authctx.Viewer(r.Context()), chi.URLParam(r, "reportId")); err != nil {
				status, msg := mapReportError(err)
				Fail(w, status, msg)
				return
			}
			WriteJSON(w, 200, map[string]any{"success": true})
		})

		// ===== Trainings =====
		pr.Get("/v1/trainings", func(w http.ResponseWriter, r *http.Request) {
			q := r.URL.Query()
			out, err := d.TrainingSvc.List(r.Context(), authctx.Viewer(r.Context()), q.Get("aluno"), q.Get("professor"))
			if err != nil {
				status, msg := mapTrainingError(err)
				Fail(w, status, msg)
				return
			}
			WriteJSON(w, 200, out)
		})

		pr.Post("/v1/trainings", func(w http.ResponseWriter, r *http.Request) {
			var in training.CreateInput
			if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
				Fail(w, 400, "invalid json")
				return
			}
			out, err := d.TrainingSvc.Create(r.Context(), authctx.Viewer(r.Context()), in)
			if err != nil {
				status, msg := mapTrainingError(err)
				Fail(w, status, msg)
				return
			}
			WriteJSON(w, 201, out)
		})

		pr.Get("/v1/trainings/{trainingId}", func(w http.ResponseWriter, r *http.Request) {
			out, err := d.TrainingSvc.Get(r.Context(), authctx.Viewer(r.Context()), chi.URLParam(r, "trainingId"))
			if err != nil {
				status, msg := mapTrainingError(err)
				Fail(w, status, msg)
				return
			}
			WriteJSON(w, 200, out)
		})

		pr.Put("/v1/trainings/{trainingId}", func(w http.ResponseWriter, r *http.Request) {
			var in training.UpdateInput
			if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
				Fail(w, 400, "invalid json")
				return
			}
			out, err := d.TrainingSvc.Update(r.Context(), authctx.Viewer(r.Context()), chi.URLParam(r, "trainingId"), in)
			if err != nil {
				status, msg := mapTrainingError(err)
				Fail(w, status, msg)
				return
			}
			WriteJSON(w, 200, out)
		})

		pr.Delete("/v1/trainings/{trainingId}", func(w http.ResponseWriter, r *http.Request) {
			if err := d.TrainingSvc.Delete(r.Context(), authctx.Viewer(r.Context()), chi.URLParam(r, "trainingId")); err != nil {
				status, msg := mapTrainingError(err)
				Fail(w, status, msg)
				return
			}
			WriteJSON(w, 200, map[string]any{"success": true})
		})

		// ===== Methodologies =====
		pr.Get("/v1/methodologies", func(w http.ResponseWriter, r *http.Request) {
			out, err := d.MethodologySvc.List(r.Context(), authctx.Viewer(r.Context()), r.URL.Query().Get("owner"))
			if err != nil {
				status, msg := mapMethodologyError(err)
				Fail(w, status, msg)
				return
			}
			WriteJSON(w, 200, out)
		})

		pr.Post("/v1/methodologies", func(w http.ResponseWriter, r *http.Request) {
			var in struct {
				Value string `json:"value"`
			}
			if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
				Fail(w, 400, "invalid json")
				return
			}
			out, err := d.MethodologySvc.Add(r.Context(), authctx.Viewer(r.Context()), in.Value)
			if err != nil {
				status, msg := mapMethodologyError(err)
				Fail(w, status, msg)
				return
			}
			WriteJSON(w, 201, out)
		})

		pr.Delete("/v1/methodologies/{value}", func(w http.ResponseWriter, r *http.Request) {
			out, err := d.MethodologySvc.Remove(r.Context(), authctx.Viewer(r.Context()), chi.URLParam(r, "value"))
			if err != nil {
				status, msg := mapMethodologyError(err)
				Fail(w, status, msg)
				return
			}
			WriteJSON(w, 200, out)
		})

		// ===== News =====
		pr.Get("/v1/news", func(w http.ResponseWriter, r *http.Request) {
			out, err := d.NewsSvc.List(r.Context())
			if err != nil {
				status, msg := mapNewsError(err)
				Fail(w, status, msg)
				return
			}
			WriteJSON(w, 200, out)
		})

		pr.Post("/v1/news", func(w http.ResponseWriter, r *http.Request) {
			var in news.Input
			if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
				Fail(w, 400, "invalid json")
				return
			}
			out, err := d.NewsSvc.Create(r.Context(), authctx.Viewer(r.Context()), in)
			if err != nil {
				status, msg := mapNewsError(err)
				Fail(w, status, msg)
				return
			}
			WriteJSON(w, 201, out)
		})

		pr.Put("/v1/news/{newsId}", func(w http.ResponseWriter, r *http.Request) {
			var in news.Input
			if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
				Fail(w, 400, "invalid json")
				return
			}
			out, err := d.NewsSvc.Update(r.Context(), authctx.Viewer(r.Context()), chi.URLParam(r, "newsId"), in)
			if err != nil {
				status, msg := mapNewsError(err)
				Fail(w, status, msg)
				return
			}
			WriteJSON(w, 200, out)
		})

		pr.Delete("/v1/news/{newsId}", func(w http.ResponseWriter, r *http.Request) {
			if err := d.NewsSvc.Delete(r.Context(), authctx.Viewer(r.Context()), chi.URLParam(r, "newsId")); err != nil {
				status, msg := mapNewsError(err)
				Fail(w, status, msg)
				return
			}
			WriteJSON(w, 200, map[string]any{"success": true})
		})

		// ===== Notifications =====
		pr.Get("/v1/notifications", func(w http.ResponseWriter, r *http.Request) {
			q := r.URL.Query()
			unreadOnly := q.Get("unread") == "true"
			limit, _ := strconv.Atoi(q.Get("limit"))
			out, err := d.NotificationsSvc.GetNotifications(r.Context(), authctx.Viewer(r.Context()), unreadOnly, limit)
			if err != nil {
				status, msg := mapNotificationsError(err)
				Fail(w, status, msg)
				return
			}
			WriteJSON(w, 200, out)
		})

		pr.Post("/v1/notifications", func(w http.ResponseWriter, r *http.Request) {
			var in notifications.CreateNotificationInput
			if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
				Fail(w, 400, "invalid json")
				return
			}
			out, err := d.NotificationsSvc.CreateNotification(r.Context(), authctx.Viewer(r.Context()), in)
			if err != nil {
				status, msg := mapNotificationsError(err)
				Fail(w, status, msg)
				return
			}
			WriteJSON(w, 201, out)
		})

		pr.Post("/v1/notifications/read-all", func(w http.ResponseWriter, r *http.Request) {
			n, err := d.NotificationsSvc.MarkRead(r.Context(), authctx.Viewer(r.Context()), notifications.MarkReadInput{MarkAll: true})
			if err != nil {
				status, msg := mapNotificationsError(err)
				Fail(w, status, msg)
				return
			}
			WriteJSON(w, 200, map[string]any{"updated": n})
		})

		pr.With(middleware.RequireAdmin).Post("/v1/notifications/broadcast", func(w http.ResponseWriter, r *http.Request) {
			var in notifications.BroadcastInput
			if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
				Fail(w, 400, "invalid json")
				return
			}
			n, err := d.NotificationsSvc.SendBulkNotification(r.Context(), authctx.Viewer(r.Context()), in)
			if err != nil {
				status, msg := mapNotificationsError(err)
				Fail(w, status, msg)
				return
			}
			WriteJSON(w, 201, map[string]any{"sent": n})
		})

		pr.Post("/v1/notifications/{id}/read", func(w http.ResponseWriter, r *http.Request) {
			in := notifications.MarkReadInput{NotificationID: chi.URLParam(r, "id")}
			n, err := d.NotificationsSvc.MarkRead(r.Context(), authctx.Viewer(r.Context()), in)
			if err != nil {
				status, msg := mapNotificationsError(err)
				Fail(w, status, msg)
				return
			}
			WriteJSON(w, 200, map[string]any{"updated": n})
		})

		pr.Delete("/v1/notifications/{id}", func(w http.ResponseWriter, r *http.Request) {
			if err := d.NotificationsSvc.DeleteNotification(r.Context(), authctx.Viewer(r.Context()), chi.URLParam(r, "id")); err != nil {
				status, msg := mapNotificationsError(err)
				Fail(w, status, msg)
				return
			}
			WriteJSON(w, 200, map[string]any{"success": true})
		})

		// ===== Payments =====
		pr.Get("/v1/payments/plans", func(w http.ResponseWriter, _ *http.Request) {
			WriteJSON(w, 200, payment.Plans())
		})

		pr.Post("/v1/payments/card", func(w http.ResponseWriter, r *http.Request) {
			var in payment.CardPaymentInput
			if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
				Fail(w, 400, "invalid json")
				return
			}
			out, err := d.PaymentSvc.PayWithCard(r.Context(), authctx.Viewer(r.Context()), in)
			if err != nil {
				status, msg := mapPaymentError(err)
				Fail(w, status, msg)
				return
			}
			WriteJSON(w, 201, out)
		})

		pr.Post("/v1/payments/pix", func(w http.ResponseWriter, r *http.Request) {
			var in payment.PixInput
			if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
				Fail(w, 400, "invalid json")
				return
			}
			out, err := d.PaymentSvc.CreatePix(r.Context(), authctx.Viewer(r.Context()), in)
			if err != nil {
				status, msg := mapPaymentError(err)
				Fail(w, status, msg)
				return
			}
			WriteJSON(w, 201, out)
		})

		pr.Post("/v1/checkout", func(w http.ResponseWriter, r *http.Request) {
			var in payment.CheckoutInput
			if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
				Fail(w, 400, "invalid json")
				return
			}
			url, err := d.PaymentSvc.CreateCheckout(r.Context(), authctx.Viewer(r.Context()), in)
			if err != nil {
				status, msg := mapPaymentError(err)
				Fail(w, status, msg)
				return
			}
			WriteJSON(w, 201, map[string]any{"url": url})
		})

		pr.Get("/v1/payments/history", func(w http.ResponseWriter, r *http.Request) {
			out, err := d.PaymentSvc.History(r.Context(), authctx.Viewer(r.Context()))
			if err != nil {
				status, msg := mapPaymentError(err)
				Fail(w, status, msg)
				return
			}
			WriteJSON(w, 200, out)
		})

		// ===== Support =====
		pr.Post("/v1/support", func(w http.ResponseWriter, r *http.Request) {
			var in support.TicketInput
			if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
				Fail(w, 400, "invalid json")
				return
			}
			p, _ := authctx.Profile(r.Context())
			from := support.Sender{UserID: p.UserID(), Nome: p.Nome(), Email: p.User.Email, Role: string(p.User.Role)}
			if err := d.SupportSvc.Send(r.Context(), from, in); err != nil {
				status, msg := mapSupportError(err)
				Fail(w, status, msg)
				return
			}
			WriteJSON(w, 202, map[string]any{"ok": true})
		})
	})

	return r
}

func avatarOf(p *identity.MergedProfile) string {
	switch {
	case p == nil:
		return ""
	case p.Professional != nil:
		return p.Professional.Avatar
	case p.Athlete != nil:
		return p.Athlete.Avatar
	case p.Guardian != nil:
		return p.Guardian.Avatar
	}
	return ""
}
