package services

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
	"github.com/shipyardhq/shipyard/internal/common"
	"github.com/shipyardhq/shipyard/internal/server/config"
	"github.com/shipyardhq/shipyard/internal/server/guard"
	"github.com/shipyardhq/shipyard/internal/server/models"
	"github.com/shipyardhq/shipyard/internal/server/repositories/repomanager"
)

// DevlogService records work log entries and hands out presigned upload URLs
// for their images.
type DevlogService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	config      *config.Config
}

func NewDevlogService(db *sql.DB, m repomanager.RepositoryManager, cfg *config.Config) *DevlogService {
	return &DevlogService{db: db, repomanager: m, config: cfg}
}

// Add records a devlog against the actor's own non-deleted project.
func (s *DevlogService) Add(ctx context.Context, actor *models.User, projectID int64, description string, timeSpent int64, image string, model *string) (*models.Devlog, error) {

	if err := guard.RequireUser(actor); err != nil {
		return nil, err
	}

	if description == "" {
		return nil, fmt.Errorf("%w: empty description", common.ErrorMalformedInput)
	}
	if timeSpent <= 0 {
		return nil, fmt.Errorf("%w: time spent must be positive minutes", common.ErrorMalformedInput)
	}

	project, err := s.repomanager.Projects(s.db).GetByID(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if project.UserID != actor.ID {
		return nil, errNotOwner(projectID)
	}

	now := time.Now()
	devlog := &models.Devlog{
		UserID:      &actor.ID,
		ProjectID:   projectID,
		Description: description,
		TimeSpent:   timeSpent,
		Image:       image,
		Model:       model,
		CreatedAt:   now,
	}

	return s.repomanager.Devlogs(s.db).Create(ctx, devlog)
}

// ListForProject returns the devlogs of the actor's own project.
func (s *DevlogService) ListForProject(ctx context.Context, actor *models.User, projectID int64) ([]models.Devlog, error) {

	if err := guard.RequireUser(actor); err != nil {
		return nil, err
	}

	project, err := s.repomanager.Projects(s.db).GetByID(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if project.UserID != actor.ID {
		return nil, errNotOwner(projectID)
	}

	return s.repomanager.Devlogs(s.db).ListByProject(ctx, projectID)
}

// randomImageKey buckets uploads by date to keep listings sane.
func randomImageKey() string {
	d := time.Now()
	return fmt.Sprintf("devlogs/%d/%d/%d/%v", d.Year(), d.Month(), d.Day(), uuid.New())
}

func (s *DevlogService) getPresignClient() (*s3.PresignClient, error) {
	cfg, err := awsconfig.LoadDefaultConfig(context.Background(),
		awsconfig.WithRegion(s.config.S3Region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			s.config.S3RootUser,
			s.config.S3RootPassword,
			"",
		)))
	if err != nil {
		return nil, err
	}

	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(s.config.S3BaseEndpoint)
	})

	return s3.NewPresignClient(client), nil
}

// PresignImageUpload returns a fresh object key and a presigned PUT URL the
// browser can upload the devlog image to.
func (s *DevlogService) PresignImageUpload(ctx context.Context, actor *models.User) (string, string, error) {

	if err := guard.RequireUser(actor); err != nil {
		return "", "", err
	}

	presignClient, err := s.getPresignClient()
	if err != nil {
		return "", "", err
	}

	bucket := s.config.S3Bucket
	key := randomImageKey()

	req, err := presignClient.PresignPutObject(ctx, &s3.PutObjectInput{
		Bucket: &bucket,
		Key:    &key,
	}, s3.WithPresignExpires(15*time.Minute))
	if err != nil {
		return "", "", err
	}

	return key, req.URL, nil
}
