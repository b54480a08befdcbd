package inmemdb

import (
	"sync"

	"github.com/darasahq/darasa/core/classroom"
	"github.com/darasahq/darasa/core/enrollment"
	"github.com/darasahq/darasa/core/invitation"
	"github.com/darasahq/darasa/core/student"
)

type (
	DB struct {
		classroom  *classroomTable
		student    *studentTable
		invitation *invitationTable
		enrollment *enrollmentTable
	}

	classroomTable struct {
		sync.RWMutex
		table map[string]*classroom.Classroom
	}

	studentTable struct {
		sync.RWMutex
		table map[string]*student.StudentProfile
	}

	invitationTable struct {
		sync.RWMutex
		table map[string]*invitation.Invitation
	}

	enrollmentTable struct {
		sync.RWMutex
		table map[string]*enrollment.Enrollment // key: classroomID + "/" + studentID
	}
)

func Open() (*DB, error) {
	db := &DB{
		classroom:  &classroomTable{table: make(map[string]*classroom.Classroom)},
		student:    &studentTable{table: make(map[string]*student.StudentProfile)},
		invitation: &invitationTable{table: make(map[string]*invitation.Invitation)},
		enrollment: &enrollmentTable{table: make(map[string]*enrollment.Enrollment)},
	}
	return db, nil
}

func enrollmentKey(classroomID, studentID string) string {
	return classroomID + "/" + studentID
}
