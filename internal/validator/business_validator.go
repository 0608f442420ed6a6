package validator

import (
	"reflect"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/SathwikPrabhu-07/PEERGRADE/internal/models"
)

// BusinessValidator handles business rule validation
type BusinessValidator struct {
	validate *validator.Validate
}

// NewBusinessValidator creates a new business validator
func NewBusinessValidator() *BusinessValidator {
	validate := validator.New()

	bv := &BusinessValidator{validate: validate}
	bv.registerBusinessRules()

	return bv
}

// Validate validates business rules for any struct
func (bv *BusinessValidator) Validate(s interface{}) ValidationErrors {
	err := bv.validate.Struct(s)
	if err != nil {
		return ToValidationErrors(err)
	}
	return nil
}

// ValidateSessionRequestCreate validates request-creation business rules.
// The learner and teacher must be different users so that feedback giver
// roles stay unambiguous per session.
func (bv *BusinessValidator) ValidateSessionRequestCreate(req *SessionRequestCreateRequest, learnerID string) ValidationErrors {
	var errors ValidationErrors

	errors = append(errors, bv.Validate(req)...)

	if req.TeacherID == learnerID {
		errors = append(errors, ValidationError{
			Field:   "teacher_id",
			Message: "teacher and learner must be different users",
			Value:   req.TeacherID,
			Rule:    "business_logic",
		})
	}

	return errors
}

// ValidateFeedbackSubmit validates the feedback payload
func (bv *BusinessValidator) ValidateFeedbackSubmit(req *FeedbackSubmitRequest) ValidationErrors {
	return bv.Validate(req)
}

// ValidateAssignmentGrade validates the 1-5 grade payload
func (bv *BusinessValidator) ValidateAssignmentGrade(req *AssignmentGradeRequest) ValidationErrors {
	return bv.Validate(req)
}

// ValidateSessionTransition validates session status transitions
func (bv *BusinessValidator) ValidateSessionTransition(current, next models.SessionStatus) ValidationErrors {
	var errors ValidationErrors

	allowedTransitions := map[models.SessionStatus][]models.SessionStatus{
		models.SessionScheduled: {models.SessionCompleted, models.SessionCancelled},
		models.SessionCompleted: {},
		models.SessionCancelled: {},
	}

	allowed := false
	for _, allowedStatus := range allowedTransitions[current] {
		if next == allowedStatus {
			allowed = true
			break
		}
	}

	if !allowed {
		errors = append(errors, ValidationError{
			Field:   "status",
			Message: "invalid session status transition",
			Value:   next,
			Rule:    "status_transition",
		})
	}

	return errors
}

func (bv *BusinessValidator) registerBusinessRules() {
	// Feedback rating validation (1-5)
	bv.validate.RegisterValidation("rating_range", func(fl validator.FieldLevel) bool {
		rating := fl.Field().Int()
		return rating >= 1 && rating <= 5
	})

	// Assignment grade validation (1-5)
	bv.validate.RegisterValidation("grade_range", func(fl validator.FieldLevel) bool {
		grade := fl.Field().Int()
		return grade >= 1 && grade <= 5
	})

	// Learning mode validation
	bv.validate.RegisterValidation("learning_mode", func(fl validator.FieldLevel) bool {
		mode := fl.Field().String()
		validModes := []models.LearningMode{models.ModeVideo, models.ModeChat, models.ModeInPerson}
		for _, vm := range validModes {
			if models.LearningMode(mode) == vm {
				return true
			}
		}
		return false
	})

	// Date validation (must be in future)
	bv.validate.RegisterValidation("future_date", func(fl validator.FieldLevel) bool {
		field := fl.Field()

		// Check if field can be nil and is nil (for pointer types)
		if field.Kind() == reflect.Ptr && field.IsNil() {
			return true // Optional field
		}

		// Handle both *time.Time and time.Time
		var t time.Time
		if field.Kind() == reflect.Ptr {
			t = field.Elem().Interface().(time.Time)
		} else {
			t = field.Interface().(time.Time)
		}

		return t.After(time.Now())
	})
}
