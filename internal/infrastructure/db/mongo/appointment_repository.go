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

// AppointmentRepository implements ports.AppointmentRepository using MongoDB.
type AppointmentRepository struct {
	col *mongo.Collection
	seq sequence
}

func NewAppointmentRepository(db *mongo.Database) ports.AppointmentRepository {
	return &AppointmentRepository{
		col: db.Collection(collectionAppointments),
		seq: newSequence(db, collectionAppointments),
	}
}

// Create assigns the next appointment ID and inserts the document.
func (r *AppointmentRepository) Create(ctx context.Context, a *domain.Appointment) (*domain.Appointment, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	id, err := r.seq.next(ctx)
	if err != nil {
		return nil, err
	}
	doc := *a
	doc.ID = id
	if _, err := r.col.InsertOne(ctx, doc); err != nil {
		return nil, fmt.Errorf("insert appointment: %w", classify(err))
	}
	return &doc, nil
}

func (r *AppointmentRepository) FindByID(ctx context.Context, id int64) (*domain.Appointment, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var a domain.Appointment
	if err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&a); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("find appointment: %w", classify(err))
	}
	return &a, nil
}

func (r *AppointmentRepository) List(ctx context.Context) ([]*domain.Appointment, error) {
	return r.find(ctx, bson.M{})
}

func (r *AppointmentRepository) ListByPatient(ctx context.Context, patientID int64) ([]*domain.Appointment, error) {
	return r.find(ctx, bson.M{"patient_id": patientID})
}

func (r *AppointmentRepository) ListByDoctor(ctx context.Context, doctorID int64) ([]*domain.Appointment, error) {
	return r.find(ctx, bson.M{"doctor_id": doctorID})
}

func (r *AppointmentRepository) find(ctx context.Context, filter bson.M) ([]*domain.Appointment, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "start_time", Value: 1}, {Key: "_id", Value: 1}})
	cur, err := r.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("list appointments: %w", classify(err))
	}

	var out []*domain.Appointment
	if err := cur.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("decode appointments: %w", classify(err))
	}
	return out, nil
}

func (r *AppointmentRepository) Update(ctx context.Context, a *domain.Appointment) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.ReplaceOne(ctx, bson.M{"_id": a.ID}, a)
	if err != nil {
		return fmt.Errorf("update appointment: %w", classify(err))
	}
	if res.MatchedCount == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *AppointmentRepository) Delete(ctx context.Context, id int64) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("delete appointment: %w", classify(err))
	}
	if res.DeletedCount == 0 {
		return domain.ErrNotFound
	}
	return nil
}
