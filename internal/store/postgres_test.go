package store

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"woodshop/internal/csql"
)

// PostgresSuite runs the gateway against a real postgres instance in a
// container. The suite is skipped when no docker daemon is reachable.
type PostgresSuite struct {
	suite.Suite
	container testcontainers.Container
	db        *csql.DB
	gateway   *Postgres
}

func TestPostgresSuite(t *testing.T) {
	suite.Run(t, new(PostgresSuite))
}

func (s *PostgresSuite) SetupSuite() {
	ctx := context.Background()

	req := testcontainers.ContainerRequest{
		Image:        "postgres:15",
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_USER":     "testuser",
			"POSTGRES_PASSWORD": "testpass",
			"POSTGRES_DB":       "testdb",
		},
		WaitingFor: wait.ForListeningPort("5432/tcp"),
	}
	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		s.T().Skipf("cannot start postgres container: %v", err)
	}
	s.container = container

	host, err := container.Host(ctx)
	s.Require().NoError(err)
	port, err := container.MappedPort(ctx, "5432")
	s.Require().NoError(err)

	dsn := fmt.Sprintf("host=%s port=%s user=testuser password=testpass dbname=testdb sslmode=disable",
		host, port.Port())

	// postgres restarts once during container init, retry until it accepts connections
	for i := 0; i < 30; i++ {
		s.db, err = csql.OpenWithSchema(dsn, "woodshop_test")
		if err == nil {
			break
		}
		time.Sleep(time.Second)
	}
	s.Require().NoError(err)
}

func (s *PostgresSuite) TearDownSuite() {
	if s.db != nil {
		s.db.Close()
	}
	if s.container != nil {
		s.container.Terminate(context.Background())
	}
}

func (s *PostgresSuite) SetupTest() {
	s.db.ClearSchema()
	gateway, err := NewPostgres(s.db)
	s.Require().NoError(err)
	s.gateway = gateway
}

func (s *PostgresSuite) TestProductLifecycle() {
	ctx := context.Background()

	created, err := s.gateway.Create(ctx, CollectionProducts, Fields{"name": "Oak Table", "price": 499})
	s.Require().NoError(err)
	s.Equal("Oak Table", created["name"])
	s.Equal(float64(499), created["price"])
	s.NotEmpty(created["id"])
	s.NotEmpty(created["created_at"])

	id := created["id"].(string)

	fetched, err := s.gateway.GetByID(ctx, CollectionProducts, id)
	s.Require().NoError(err)
	s.Equal(created, fetched)

	updated, err := s.gateway.Update(ctx, CollectionProducts, id, Fields{"price": 549})
	s.Require().NoError(err)
	s.Equal("Oak Table", updated["name"], "update must merge, not replace")
	s.Equal(float64(549), updated["price"])

	s.Require().NoError(s.gateway.DeleteByID(ctx, CollectionProducts, id))

	_, err = s.gateway.GetByID(ctx, CollectionProducts, id)
	s.Require().Error(err)
	s.Equal(KindNotFound, KindOf(err))
}

func (s *PostgresSuite) TestListIsNewestFirst() {
	ctx := context.Background()

	var ids []interface{}
	for _, species := range []string{"oak", "walnut", "ash"} {
		record, err := s.gateway.Create(ctx, CollectionWoods, Fields{"species": species})
		s.Require().NoError(err)
		ids = append(ids, record["id"])
		time.Sleep(50 * time.Millisecond)
	}

	records, err := s.gateway.List(ctx, CollectionWoods)
	s.Require().NoError(err)
	s.Require().Len(records, 3)
	s.Equal(ids[2], records[0]["id"])
	s.Equal(ids[1], records[1]["id"])
	s.Equal(ids[0], records[2]["id"])
}

func (s *PostgresSuite) TestStampedCreationTimeSurvivesRoundTrip() {
	ctx := context.Background()

	stamp := time.Now().UTC().Add(-time.Hour).Format(time.RFC3339)
	created, err := s.gateway.Create(ctx, CollectionRequests, Fields{"name": "Ada", "created_at": stamp})
	s.Require().NoError(err)
	s.Equal(stamp, created["created_at"], "stamped attributes overlay the store's own column")

	fetched, err := s.gateway.GetByID(ctx, CollectionRequests, created["id"].(string))
	s.Require().NoError(err)
	s.Equal(stamp, fetched["created_at"])
}

func (s *PostgresSuite) TestConfigSingleton() {
	ctx := context.Background()

	config, err := s.gateway.GetByID(ctx, CollectionConfig, ConfigSingletonID)
	s.Require().NoError(err)
	s.Equal(1, config["id"], "the config row is seeded at bootstrap")

	updated, err := s.gateway.Update(ctx, CollectionConfig, ConfigSingletonID, Fields{"title": "Woodshop"})
	s.Require().NoError(err)
	s.Equal(1, updated["id"])
	s.Equal("Woodshop", updated["title"])

	records, err := s.gateway.List(ctx, CollectionConfig)
	s.Require().NoError(err)
	s.Len(records, 1)
}

func (s *PostgresSuite) TestDeleteUnknownIdIsNotFound() {
	err := s.gateway.DeleteByID(context.Background(), CollectionProducts, "8e9f3cc7-14f2-4f0f-a4b3-7f6f1bb0c6f2")
	s.Require().Error(err)
	s.Equal(KindNotFound, KindOf(err))
}

func (s *PostgresSuite) TestUnknownCollection() {
	_, err := s.gateway.List(context.Background(), "gadgets")
	s.Require().Error(err)
	s.Equal(KindUnknown, KindOf(err))
}
