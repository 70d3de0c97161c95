package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/yoockh/hirescreen/internal/api/handlers"
	"github.com/yoockh/hirescreen/internal/api/middleware"
)

type Deps struct {
	Auth        middleware.JWTConfig
	Interview   *handlers.InterviewHandler
	Report      *handlers.ReportHandler
	Job         *handlers.JobHandler
	Application *handlers.ApplicationHandler
	Profile     *handlers.ProfileHandler
	WS          *handlers.WSHandler // nil without Redis
}

func RegisterRoutes(r *gin.Engine, d Deps) {
	r.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{"message": "pong"})
	})

	auth := r.Group("/")
	auth.Use(middleware.JWTAuth(d.Auth))

	candidate := auth.Group("/", middleware.RequireCandidate())
	recruiter := auth.Group("/", middleware.RequireRecruiter())

	// interviews
	candidate.POST("/applications/:id/interview", d.Interview.Start)
	candidate.POST("/interviews/:id/messages", d.Interview.SendMessage)
	auth.POST("/interviews/:id/report", d.Interview.GenerateReport)
	auth.GET("/interviews/:id", d.Interview.Get)
	auth.DELETE("/interviews/:id", d.Interview.Delete)
	recruiter.GET("/applications/:id/report", d.Report.GetByApplication)

	// jobs and applications
	recruiter.POST("/jobs", d.Job.Create)
	auth.GET("/jobs/:id", d.Job.Get)
	recruiter.GET("/jobs/:id/applications", d.Job.ListApplications)
	candidate.POST("/jobs/:id/applications", d.Job.Apply)
	recruiter.PATCH("/applications/:id/status", d.Application.UpdateStatus)
	candidate.GET("/candidate/applications", d.Application.ListApplied)
	recruiter.GET("/recruiter/shortlisted", d.Application.ListShortlisted)
	recruiter.GET("/recruiter/dashboard", d.Application.Dashboard)

	// profile
	auth.GET("/profile/me", d.Profile.Me)
	auth.PUT("/profile/me", d.Profile.Update)
	candidate.POST("/profile/resume", d.Profile.UploadResume)

	if d.WS != nil {
		auth.GET("/ws/interviews/:id", d.WS.InterviewWS)
	}
}
