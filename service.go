package orf

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"
	"github.com/pkg/errors"

	"github.com/kanishk-pant/orf-english/internal/store"
	"github.com/kanishk-pant/orf-english/internal/transcribe"
	"github.com/kanishk-pant/orf-english/internal/util"
)

type Service struct {
	// embedded web server to handle assessment requests
	e *echo.Echo
	// the unique name of this service when running multiple instances
	serviceName string
	// the unique id of this service when running multiple instances
	serviceID string
	// the host address this service instance is running on
	serviceHost string
	// the port that this service instance is running on
	servicePort int
	// directory where uploaded recordings are stored
	uploadDir string
	// browser origins allowed to call the api
	corsOrigins []string
	// persistence for students and assessment history
	store *store.Store
	// external speech-to-text collaborator
	transcriber transcribe.Transcriber
}

//
// create a new service instance
//
func New(options ...Option) (*Service, error) {

	srvc := Service{}

	if err := srvc.setOptions(options...); err != nil {
		return nil, err
	}

	if srvc.store == nil {
		return nil, errors.New("service requires a store, use orf.Store()")
	}
	if srvc.transcriber == nil {
		return nil, errors.New("service requires a transcriber, use orf.Transcriber()")
	}

	if srvc.serviceName == "" {
		srvc.serviceName = util.GenerateName()
	}
	if srvc.serviceID == "" {
		srvc.serviceID = util.GenerateID()
	}
	if srvc.serviceHost == "" {
		srvc.serviceHost = "localhost"
	}
	if srvc.servicePort == 0 {
		port, err := util.AvailablePort()
		if err != nil {
			return nil, err
		}
		srvc.servicePort = port
	}
	if srvc.uploadDir == "" {
		srvc.uploadDir = "uploads/audio"
	}
	if len(srvc.corsOrigins) == 0 {
		srvc.corsOrigins = []string{"http://localhost:3000", "http://127.0.0.1:3000"}
	}
	if err := os.MkdirAll(srvc.uploadDir, 0o755); err != nil {
		return nil, errors.Wrap(err, "cannot create upload directory")
	}

	srvc.e = echo.New()
	srvc.e.Logger.SetLevel(log.INFO)
	srvc.e.HideBanner = true

	// allow the recording front-end to call the api
	srvc.e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     srvc.corsOrigins,
		AllowCredentials: true,
	}))

	// add pingable method to know we're up
	srvc.e.GET("/", func(c echo.Context) error {
		return c.JSON(http.StatusOK, "OK")
	})
	srvc.e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "healthy"})
	})

	api := srvc.e.Group("/api")
	api.POST("/students", srvc.buildCreateStudentHandler())
	api.GET("/students/:id", srvc.buildGetStudentHandler())
	api.GET("/students/:id/assessments", srvc.buildListAssessmentsHandler())
	api.GET("/students/:id/analytics", srvc.buildAnalyticsHandler())
	api.GET("/paragraphs/default", srvc.buildDefaultParagraphHandler())
	api.POST("/assess/default", srvc.buildAssessHandler("default"))
	api.POST("/assess/custom", srvc.buildAssessHandler("custom"))
	api.GET("/leaderboard", srvc.buildLeaderboardHandler())

	return &srvc, nil
}

//
// start the service running
//
func (s *Service) Start() {

	address := fmt.Sprintf("%s:%d", s.serviceHost, s.servicePort)
	go func(addr string) {
		if err := s.e.Start(addr); err != nil {
			s.e.Logger.Info("error starting server: ", err, ", shutting down...")
			// attempt clean shutdown by raising sig int
			p, _ := os.FindProcess(os.Getpid())
			p.Signal(os.Interrupt)
		}
	}(address)

}

//
// shut the server down gracefully
//
func (s *Service) Shutdown() {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := s.e.Shutdown(ctx); err != nil {
		fmt.Println("could not shut down server cleanly: ", err)
		s.e.Logger.Fatal(err)
	}

}

//
// expose the service as a plain http handler, used when
// embedding in tests or another mux
//
func (s *Service) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.e.ServeHTTP(w, r)
}

func (s *Service) PrintConfig() {

	fmt.Println("\n\tORF Assessment Service Configuration")
	fmt.Println("\t------------------------------------")

	s.printID()
	s.printCollaborators()

}

func (s *Service) printID() {
	fmt.Println("\tservice name:\t\t", s.serviceName)
	fmt.Println("\tservice ID:\t\t", s.serviceID)
	fmt.Println("\tservice host:\t\t", s.serviceHost)
	fmt.Println("\tservice port:\t\t", s.servicePort)
}

func (s *Service) printCollaborators() {
	fmt.Println("\tupload dir:\t\t", s.uploadDir)
	if c, ok := s.transcriber.(fmt.Stringer); ok {
		fmt.Println("\ttranscriber:\t\t", c.String())
	}
}
