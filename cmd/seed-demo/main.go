package main

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/gradeflow/gradeflow-backend/internal/config"
	"github.com/gradeflow/gradeflow-backend/internal/database"
	"github.com/gradeflow/gradeflow-backend/internal/logger"
	"github.com/gradeflow/gradeflow-backend/internal/model"
	"github.com/gradeflow/gradeflow-backend/internal/repository"
	"golang.org/x/crypto/bcrypt"
)

func main() {
	cfg := config.Load()
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	pool, err := database.NewPostgresPool(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer pool.Close()

	userRepo := repository.NewUserRepository(pool)
	programmeRepo := repository.NewProgrammeRepository(pool)
	classRepo := repository.NewClassRepository(pool)
	assignmentRepo := repository.NewAssignmentRepository(pool)

	fmt.Println("=== Seeding Demo Data ===")

	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), cfg.BcryptCost)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to hash seed password")
	}

	teacher := &model.User{
		Name:         "Dana Whitcombe",
		Email:        "dana.whitcombe@gradeflow.test",
		Role:         model.RoleTeacher,
		Status:       model.UserStatusActive,
		PasswordHash: string(hash),
	}
	if err := userRepo.Create(ctx, teacher); err != nil {
		log.Fatal().Err(err).Msg("Failed to create teacher")
	}
	fmt.Printf("Created teacher %s\n", teacher.Email)

	programme := &model.Programme{
		Name:        "Software Engineering BSc",
		Description: "Three-year undergraduate software engineering programme.",
	}
	if err := programmeRepo.CreateProgramme(ctx, programme); err != nil {
		log.Fatal().Err(err).Msg("Failed to create programme")
	}

	cohort := &model.Cohort{
		ProgrammeID: programme.ID,
		Label:       "2026 Autumn",
		StartAt:     time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC),
		EndAt:       time.Date(2029, 6, 30, 0, 0, 0, 0, time.UTC),
	}
	if err := programmeRepo.CreateCohort(ctx, cohort); err != nil {
		log.Fatal().Err(err).Msg("Failed to create cohort")
	}

	class := &model.Class{
		CohortID:      cohort.ID,
		Title:         "Distributed Systems",
		Code:          "SE-DS-301",
		InstructorIDs: []uuid.UUID{teacher.ID},
		ScheduleMeta:  []byte(`{"weekday":"tuesday","slot":"10:00-12:00"}`),
	}
	if err := classRepo.CreateClass(ctx, class); err != nil {
		log.Fatal().Err(err).Msg("Failed to create class")
	}
	fmt.Printf("Created class %s (%s)\n", class.Title, class.Code)

	names := []string{
		"Alice Turay", "Bram Vested", "Carla Jimenez", "Derek Osei", "Elin Marsh",
		"Farid Nazari", "Greta Holm", "Hugo Lindqvist", "Ines Ferrara", "Jonas Brandt",
		"Katya Morozova", "Liam Donnelly", "Mina Park", "Noah Veldman", "Olga Petrova",
		"Pavel Horak", "Quinn Abara", "Rosa Delgado", "Samir Haddad", "Tessa Nyberg",
	}

	successCount := 0
	for i, name := range names {
		student := &model.User{
			Name:         name,
			Email:        fmt.Sprintf("student%02d@gradeflow.test", i+1),
			Role:         model.RoleStudent,
			Status:       model.UserStatusActive,
			PasswordHash: string(hash),
		}
		if err := userRepo.Create(ctx, student); err != nil {
			fmt.Printf("Error creating student %s: %v\n", name, err)
			continue
		}
		if _, err := classRepo.UpsertEnrollment(ctx, class.ID, student.ID, model.EnrollmentActive); err != nil {
			fmt.Printf("Error enrolling student %s: %v\n", name, err)
			continue
		}
		successCount++
	}
	fmt.Printf("Enrolled %d/%d students\n", successCount, len(names))

	assignments := []model.Assignment{
		{
			ClassID:       class.ID,
			Title:         "Consensus Protocol Essay",
			Description:   "Compare Raft and Paxos; 2000 words.",
			Type:          model.AssignmentTask,
			DueAt:         time.Date(2026, 10, 15, 23, 59, 0, 0, time.UTC),
			GradingSchema: model.GradingPercentage,
			MaxPoints:     100,
		},
		{
			ClassID:       class.ID,
			Title:         "Key-Value Store Project",
			Description:   "Build a replicated key-value store in teams of three.",
			Type:          model.AssignmentProject,
			DueAt:         time.Date(2026, 12, 1, 23, 59, 0, 0, time.UTC),
			GradingSchema: model.GradingPoints,
			MaxPoints:     50,
		},
		{
			ClassID:       class.ID,
			Title:         "Midterm Test",
			Type:          model.AssignmentTest,
			DueAt:         time.Date(2026, 11, 5, 10, 0, 0, 0, time.UTC),
			GradingSchema: model.GradingPoints,
			MaxPoints:     100,
		},
	}
	for i := range assignments {
		if err := assignmentRepo.Create(ctx, &assignments[i]); err != nil {
			fmt.Printf("Error creating assignment %s: %v\n", assignments[i].Title, err)
			continue
		}
	}

	fmt.Println("\nSeed completed!")
}
