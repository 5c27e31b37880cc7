package mongo

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/carepoint/clinic-api/internal/core/domain"
	"github.com/carepoint/clinic-api/internal/core/ports"
)

const (
	indexUsername = "uniq_username"
	indexEmail    = "uniq_email"
)

// IdentityRepository implements ports.IdentityRepository on MongoDB. The
// unique indexes created by EnsureIndexes are the serialization point for
// concurrent signups.
type IdentityRepository struct {
	col *mongo.Collection
	seq sequence
}

func NewIdentityRepository(db *mongo.Database) ports.IdentityRepository {
	return &IdentityRepository{
		col: db.Collection(collectionIdentities),
		seq: newSequence(db, collectionIdentities),
	}
}

type identityDoc struct {
	ID         int64     `bson:"_id"`
	Username   string    `bson:"username"`
	Email      string    `bson:"email"`
	SecretHash string    `bson:"secret_hash"`
	FirstName  string    `bson:"first_name,omitempty"`
	LastName   string    `bson:"last_name,omitempty"`
	Phone      string    `bson:"phone,omitempty"`
	Roles      []string  `bson:"roles"`
	CreatedAt  time.Time `bson:"created_at"`
	UpdatedAt  time.Time `bson:"updated_at"`
}

func toIdentityDoc(i *domain.Identity) identityDoc {
	return identityDoc{
		ID:         i.ID,
		Username:   i.Username,
		Email:      i.Email,
		SecretHash: i.SecretHash,
		FirstName:  i.FirstName,
		LastName:   i.LastName,
		Phone:      i.Phone,
		Roles:      i.Roles.Strings(),
		CreatedAt:  i.CreatedAt.UTC(),
		UpdatedAt:  i.UpdatedAt.UTC(),
	}
}

func (d identityDoc) toDomain() *domain.Identity {
	roles, _ := domain.ParseRoleSet(d.Roles)
	return &domain.Identity{
		ID:         d.ID,
		Username:   d.Username,
		Email:      d.Email,
		SecretHash: d.SecretHash,
		FirstName:  d.FirstName,
		LastName:   d.LastName,
		Phone:      d.Phone,
		Roles:      roles,
		CreatedAt:  d.CreatedAt,
		UpdatedAt:  d.UpdatedAt,
	}
}

// Create assigns the next identity ID and inserts the document.
func (r *IdentityRepository) Create(ctx context.Context, identity *domain.Identity) (*domain.Identity, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	id, err := r.seq.next(ctx)
	if err != nil {
		return nil, err
	}

	doc := toIdentityDoc(identity)
	doc.ID = id
	if _, err := r.col.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, duplicateIdentity(err)
		}
		return nil, fmt.Errorf("insert identity: %w", classify(err))
	}
	return doc.toDomain(), nil
}

// duplicateIdentity maps a duplicate-key error to the conflict it reports,
// keyed on the index name.
func duplicateIdentity(err error) error {
	if strings.Contains(err.Error(), indexEmail) {
		return domain.ErrEmailTaken
	}
	return domain.ErrUsernameTaken
}

func (r *IdentityRepository) FindByID(ctx context.Context, id int64) (*domain.Identity, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

func (r *IdentityRepository) FindByUsername(ctx context.Context, username string) (*domain.Identity, error) {
	return r.findOne(ctx, bson.M{"username": username})
}

func (r *IdentityRepository) findOne(ctx context.Context, filter bson.M) (*domain.Identity, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc identityDoc
	if err := r.col.FindOne(ctx, filter).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("find identity: %w", classify(err))
	}
	return doc.toDomain(), nil
}

func (r *IdentityRepository) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	return r.exists(ctx, bson.M{"username": username})
}

func (r *IdentityRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	return r.exists(ctx, bson.M{"email": email})
}

func (r *IdentityRepository) exists(ctx context.Context, filter bson.M) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	n, err := r.col.CountDocuments(ctx, filter)
	if err != nil {
		return false, fmt.Errorf("count identities: %w", classify(err))
	}
	return n > 0, nil
}

func (r *IdentityRepository) Count(ctx context.Context) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	n, err := r.col.EstimatedDocumentCount(ctx)
	if err != nil {
		return 0, fmt.Errorf("count identities: %w", classify(err))
	}
	return n, nil
}
