package http

import (
	"github.com/milbratheduardo/App-ZSUL-sub000/internal/domain/account"
	"github.com/milbratheduardo/App-ZSUL-sub000/internal/domain/attendance"
	"github.com/milbratheduardo/App-ZSUL-sub000/internal/domain/event"
	"github.com/milbratheduardo/App-ZSUL-sub000/internal/domain/gallery"
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
)

// Session problems are 401; permission problems inside a valid session are
// 403.
func mapAccountError(err error) (int, string) {
	if err == nil {
		return 500, "unknown error"
	}
	switch {
	case account.IsErrUnauthorized(err):
		return 401, err.Error()
	case account.IsErrConflict(err):
		return 409, err.Error()
	case account.IsErrBadRequest(err):
		return 400, err.Error()
	default:
		return 500, err.Error()
	}
}

func mapProfileError(err error) (int, string) {
	if err == nil {
		return 500, "unknown error"
	}
	switch {
	case profile.IsErrUnauthorized(err):
		return 403, err.Error()
	case profile.IsErrNotFound(err):
		return 404, err.Error()
	case profile.IsErrConflict(err):
		return 409, err.Error()
	case profile.IsErrBadRequest(err):
		return 400, err.Error()
	default:
		return 500, err.Error()
	}
}

func mapTurmaError(err error) (int, string) {
	if err == nil {
		return 500, "unknown error"
	}
	switch {
	case turma.IsErrUnauthorized(err):
		return 403, err.Error()
	case turma.IsErrNotFound(err):
		return 404, err.Error()
	case turma.IsErrClassFull(err):
		return 409, err.Error()
	case turma.IsErrBadRequest(err):
		return 400, err.Error()
	default:
		return 500, err.Error()
	}
}

func mapAttendanceError(err error) (int, string) {
	if err == nil {
		return 500, "unknown error"
	}
	switch {
	case attendance.IsErrUnauthorized(err):
		return 403, err.Error()
	case attendance.IsErrNotFound(err):
		return 404, err.Error()
	case attendance.IsErrBadRequest(err):
		return 400, err.Error()
	default:
		return 500, err.Error()
	}
}

func mapRosterError(err error) (int, string) {
	if err == nil {
		return 500, "unknown error"
	}
	switch {
	case roster.IsErrUnauthorized(err):
		return 403, err.Error()
	case roster.IsErrNotFound(err):
		return 404, err.Error()
	case roster.IsErrBadRequest(err):
		return 400, err.Error()
	default:
		return 500, err.Error()
	}
}

func mapStatsError(err error) (int, string) {
	if err == nil {
		return 500, "unknown error"
	}
	switch {
	case stats.IsErrBadRequest(err):
		return 400, err.Error()
	default:
		return 500, err.Error()
	}
}

func mapEventError(err error) (int, string) {
	if err == nil {
		return 500, "unknown error"
	}
	switch {
	case event.IsErrUnauthorized(err):
		return 403, err.Error()
	case event.IsErrNotFound(err):
		return 404, err.Error()
	case event.IsErrBadRequest(err):
		return 400, err.Error()
	default:
		return 500, err.Error()
	}
}

func mapGalleryError(err error) (int, string) {
	if err == nil {
		return 500, "unknown error"
	}
	switch {
	case gallery.IsErrUnauthorized(err):
		return 403, err.Error()
	case gallery.IsErrNotFound(err):
		return 404, err.Error()
	case gallery.IsErrBadRequest(err):
		return 400, err.Error()
	default:
		return 500, err.Error()
	}
}

func mapReportError(err error) (int, string) {
	if err == nil {
		return 500, "unknown error"
	}
	switch {
	case report.IsErrUnauthorized(err):
		return 403, err.Error()
	case report.IsErrNotFound(err):
		return 404, err.Error()
	case report.IsErrBadRequest(err):
		return 400, err.Error()
	default:
		return 500, err.Error()
	}
}

func mapTrainingError(err error) (int, string) {
	if err == nil {
		return 500, "unknown error"
	}
	switch {
	case training.IsErrUnauthorized(err):
		return 403, err.Error()
	case training.IsErrNotFound(err):
		return 404, err.Error()
	case training.IsErrBadRequest(err):
		return 400, err.Error()
	default:
		return 500, err.Error()
	}
}

func mapMethodologyError(err error) (int, string) {
	if err == nil {
		return 500, "unknown error"
	}
	switch {
	case methodology.IsErrUnauthorized(err):
		return 403, err.Error()
	case methodology.IsErrNotFound(err):
		return 404, err.Error()
	case methodology.IsErrBadRequest(err):
		return 400, err.Error()
	default:
		return 500, err.Error()
	}
}

func mapNewsError(err error) (int, string) {
	if err == nil {
		return 500, "unknown error"
	}
	switch {
	case news.IsErrUnauthorized(err):
		return 403, err.Error()
	case news.IsErrNotFound(err):
		return 404, err.Error()
	case news.IsErrBadRequest(err):
		return 400, err.Error()
	default:
		return 500, err.Error()
	}
}

func mapNotificationsError(err error) (int, string) {
	if err == nil {
		return 500, "unknown error"
	}
	switch {
	case notifications.IsErrUnauthorized(err):
		return 403, err.Error()
	case notifications.IsErrNotFound(err):
		return 404, err.Error()
	case notifications.IsErrBadRequest(err):
		return 400, err.Error()
	default:
		return 500, err.Error()
	}
}

// Declined cards and gateway failures are 402.
func mapPaymentError(err error) (int, string) {
	if err == nil {
		return 500, "unknown error"
	}
	switch {
	case payment.IsErrUnauthorized(err):
		return 403, err.Error()
	case payment.IsErrNotFound(err):
		return 404, err.Error()
	case payment.IsErrPaymentDeclined(err), payment.IsErrPayment(err):
		return 402, err.Error()
	case payment.IsErrBadRequest(err):
		return 400, err.Error()
	default:
		return 500, err.Error()
	}
}

func mapSupportError(err error) (int, string) {
	if err == nil {
		return 500, "unknown error"
	}
	if support.IsErrBadRequest(err) {
		return 400, err.Error()
	}
	return 500, err.Error()
}
