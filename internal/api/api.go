package api

import (
	"context"
	"fmt"
	"time"

	"github.com/fasthttp/router"
	"github.com/rs/zerolog/log"
	"github.com/valyala/fasthttp"

	"github.com/tarikcelik1/microservice-personnel-management/internal/dto"
)

type PersonelService interface {
	Create(ctx context.Context, in dto.PersonelCreate) (*dto.Personel, error)
	Update(ctx context.Context, id int64, patch dto.PersonelUpdate) (*dto.Personel, error)
	Delete(ctx context.Context, id int64) error
	GetByID(ctx context.Context, id int64) (*dto.Personel, error)
	List(ctx context.Context) ([]dto.Personel, error)
	ListPaged(ctx context.Context, page, size int, sortBy, sortDir string) (dto.Page[dto.Personel], error)
	Search(ctx context.Context, searchText string, page, size int) (dto.Page[dto.Personel], error)
	Departments(ctx context.Context) ([]string, error)
	Positions(ctx context.Context) ([]string, error)
}

type NotificationSender interface {
	SendDirect(ctx context.Context, req dto.NotificationRequest) error
	RetryFailed(ctx context.Context) (attempted, succeeded int, err error)
	Statistics(ctx context.Context) (dto.NotificationStats, error)
}

type NotificationLogs interface {
	ListAll(ctx context.Context) ([]dto.NotificationLog, error)
	ListPaged(ctx context.Context, page, size int, sortBy, sortDir string) ([]dto.NotificationLog, int64, error)
	ListFailed(ctx context.Context) ([]dto.NotificationLog, error)
	ListByPersonel(ctx context.Context, personelID int64) ([]dto.NotificationLog, error)
	ListByOperation(ctx context.Context, operationType string) ([]dto.NotificationLog, error)
	ListByStatus(ctx context.Context, emailSent bool, page, size int) ([]dto.NotificationLog, int64, error)
	ListByDateRange(ctx context.Context, start, end time.Time) ([]dto.NotificationLog, error)
	ListByPersonelEmail(ctx context.Context, email string) ([]dto.NotificationLog, error)
}

// PersonelAPI — HTTP-поверхность сервиса записей (/api/personel).
type PersonelAPI struct {
	r        *router.Router
	server   *fasthttp.Server
	port     int
	personel PersonelService
}

type PersonelAPIDeps struct {
	Port     int
	Personel PersonelService
}

func NewPersonelAPI(d PersonelAPIDeps) *PersonelAPI {
	s := &PersonelAPI{
		r:        router.New(),
		port:     d.Port,
		personel: d.Personel,
	}

	s.mountRoutes()
	s.server = newServer("personel-api", s.r)

	return s
}

func (s *PersonelAPI) Start(ctx context.Context) error {
	return serve(ctx, s.server, s.port)
}

func (s *PersonelAPI) mountRoutes() {
	s.r.GET("/api/personel", s.listPersonel)
	s.r.GET("/api/personel/paged", s.listPersonelPaged)
	s.r.GET("/api/personel/search", s.searchPersonel)
	s.r.GET("/api/personel/departmanlar", s.listDepartments)
	s.r.GET("/api/personel/pozisyonlar", s.listPositions)
	s.r.GET("/api/personel/{id}", s.getPersonel)
	s.r.POST("/api/personel", s.createPersonel)
	s.r.PUT("/api/personel/{id}", s.updatePersonel)
	s.r.DELETE("/api/personel/{id}", s.deletePersonel)

	s.r.GET("/health", healthHandler)
}

// NotificationAPI — HTTP-поверхность сервиса уведомлений (/api/notifications).
type NotificationAPI struct {
	r      *router.Router
	server *fasthttp.Server
	port   int
	sender NotificationSender
	logs   NotificationLogs
}

type NotificationAPIDeps struct {
	Port   int
	Sender NotificationSender
	Logs   NotificationLogs
}

func NewNotificationAPI(d NotificationAPIDeps) *NotificationAPI {
	s := &NotificationAPI{
		r:      router.New(),
		port:   d.Port,
		sender: d.Sender,
		logs:   d.Logs,
	}

	s.mountRoutes()
	s.server = newServer("notification-api", s.r)

	return s
}

func (s *NotificationAPI) Start(ctx context.Context) error {
	return serve(ctx, s.server, s.port)
}

func (s *NotificationAPI) mountRoutes() {
	s.r.POST("/api/notifications/send", s.sendNotification)
	s.r.GET("/api/notifications", s.listNotifications)
	s.r.GET("/api/notifications/paged", s.listNotificationsPaged)
	s.r.GET("/api/notifications/failed", s.listFailedNotifications)
	s.r.GET("/api/notifications/statistics", s.notificationStatistics)
	s.r.GET("/api/notifications/date-range", s.listNotificationsByDateRange)
	s.r.GET("/api/notifications/personel/{personelId}", s.listNotificationsByPersonel)
	s.r.GET("/api/notifications/operation/{operationType}", s.listNotificationsByOperation)
	s.r.GET("/api/notifications/status/{emailSent}", s.listNotificationsByStatus)
	s.r.GET("/api/notifications/email/{email}", s.listNotificationsByEmail)
	s.r.POST("/api/notifications/retry-failed", s.retryFailedNotifications)

	s.r.GET("/health", healthHandler)
}

func healthHandler(ctx *fasthttp.RequestCtx) {
	ok(ctx, "OK")
}

func newServer(name string, rt *router.Router) *fasthttp.Server {
	return &fasthttp.Server{
		Handler:            RecoveryMiddleware(LoggingMiddleware(CORS(rt.Handler))),
		Name:               name,
		ReadTimeout:        10 * time.Second,
		WriteTimeout:       15 * time.Second,
		MaxRequestBodySize: 2 << 20, // 2 MiB
	}
}

func serve(ctx context.Context, server *fasthttp.Server, port int) error {
	log.Info().Int("port", port).Str("server", server.Name).Msg("Starting HTTP API")

	emergencyShutdown := make(chan error)
	go func() {
		emergencyShutdown <- server.ListenAndServe(fmt.Sprintf(":%d", port))
	}()

	select {
	case <-ctx.Done():
		return server.Shutdown()
	case e := <-emergencyShutdown:
		return e
	}
}
