package mongo

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/carepoint/clinic-api/internal/core/domain"
	"github.com/carepoint/clinic-api/internal/core/ports"
)

// facetCollection stores one document per identity, keyed by the identity ID
// in _id. The primary key makes a second facet for the same identity a
// duplicate-key error.
type facetCollection[T any] struct {
	col  *mongo.Collection
	name string
}

func (f facetCollection[T]) insert(ctx context.Context, doc *T) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if _, err := f.col.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return domain.ErrFacetAlreadyExists
		}
		return fmt.Errorf("insert %s: %w", f.name, classify(err))
	}
	return nil
}

func (f facetCollection[T]) findByID(ctx context.Context, id int64) (*T, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc T
	if err := f.col.FindOne(ctx, bson.M{"_id": id}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("find %s: %w", f.name, classify(err))
	}
	return &doc, nil
}

func (f facetCollection[T]) list(ctx context.Context) ([]*T, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := f.col.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", f.name, classify(err))
	}
	defer cur.Close(ctx)

	var out []*T
	for cur.Next(ctx) {
		var doc T
		if err := cur.Decode(&doc); err != nil {
			return nil, fmt.Errorf("decode %s: %w", f.name, err)
		}
		out = append(out, &doc)
	}
	if err := cur.Err(); err != nil {
		return nil, fmt.Errorf("list %s: %w", f.name, classify(err))
	}
	return out, nil
}

func (f facetCollection[T]) replace(ctx context.Context, id int64, doc *T) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := f.col.ReplaceOne(ctx, bson.M{"_id": id}, doc)
	if err != nil {
		return fmt.Errorf("update %s: %w", f.name, classify(err))
	}
	if res.MatchedCount == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (f facetCollection[T]) delete(ctx context.Context, id int64) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := f.col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("delete %s: %w", f.name, classify(err))
	}
	if res.DeletedCount == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// DoctorRepository implements ports.DoctorRepository using MongoDB.
type DoctorRepository struct {
	facets facetCollection[domain.DoctorFacet]
}

func NewDoctorRepository(db *mongo.Database) ports.DoctorRepository {
	return &DoctorRepository{facets: facetCollection[domain.DoctorFacet]{col: db.Collection(collectionDoctors), name: "doctor"}}
}

func (r *DoctorRepository) Create(ctx context.Context, facet *domain.DoctorFacet) error {
	return r.facets.insert(ctx, facet)
}

func (r *DoctorRepository) FindByID(ctx context.Context, id int64) (*domain.DoctorFacet, error) {
	return r.facets.findByID(ctx, id)
}

func (r *DoctorRepository) List(ctx context.Context) ([]*domain.DoctorFacet, error) {
	return r.facets.list(ctx)
}

func (r *DoctorRepository) Update(ctx context.Context, facet *domain.DoctorFacet) error {
	return r.facets.replace(ctx, facet.ID, facet)
}

func (r *DoctorRepository) Delete(ctx context.Context, id int64) error {
	return r.facets.delete(ctx, id)
}

// PatientRepository implements ports.PatientRepository using MongoDB.
type PatientRepository struct {
	facets facetCollection[domain.PatientFacet]
}

func NewPatientRepository(db *mongo.Database) ports.PatientRepository {
	return &PatientRepository{facets: facetCollection[domain.PatientFacet]{col: db.Collection(collectionPatients), name: "patient"}}
}

func (r *PatientRepository) Create(ctx context.Context, facet *domain.PatientFacet) error {
	return r.facets.insert(ctx, facet)
}

func (r *PatientRepository) FindByID(ctx context.Context, id int64) (*domain.PatientFacet, error) {
	return r.facets.findByID(ctx, id)
}

func (r *PatientRepository) List(ctx context.Context) ([]*domain.PatientFacet, error) {
	return r.facets.list(ctx)
}

func (r *PatientRepository) Update(ctx context.Context, facet *domain.PatientFacet) error {
	return r.facets.replace(ctx, facet.ID, facet)
}

func (r *PatientRepository) Delete(ctx context.Context, id int64) error {
	return r.facets.delete(ctx, id)
}
