// Package repository provides the dashboard's durable storage of terminated
// sampling contexts, backed by GORM.
package repository

import (
	"github.com/stackfold/stackfold/pkg/model"
)

// ProfileRecordRow is the GORM row type for the profile_records table. It is
// an alias of model.ProfileRecord, so the domain type and the storage schema
// are one and the same type.
type ProfileRecordRow = model.ProfileRecord
