package models

import "mime/multipart"

type ProjectParams struct {
	Id string `path:"id" json:"-" form:"-"`
}

type ReleaseParams struct {
	Id        string `path:"id" json:"-" form:"-"`
	ReleaseId string `path:"releaseId" json:"-" form:"-"`
}

// CreateProjectRequest is bound from JSON or a multipart form. File is the
// optional project icon. Length limits are checked when binding; required
// fields are checked by the services so the CMS forms share the messages.
type CreateProjectRequest struct {
	Id          string                `json:"id" form:"id" validate:"max=64"`
	Name        string                `json:"name" form:"name" validate:"max=200"`
	Description *string               `json:"description,omitempty" form:"description" validate:"omitempty,max=2000"`
	IosBundleId *string               `json:"iosBundleId,omitempty" form:"iosBundleId" validate:"omitempty,max=255"`
	Tracks      []string              `json:"tracks,omitempty" form:"tracks" validate:"max=50,dive,max=64"`
	File        *multipart.FileHeader `json:"-" form:"file"`
}

func (r CreateProjectRequest) Input() ProjectInput {
	return ProjectInput{
		Id:          r.Id,
		Name:        r.Name,
		Description: r.Description,
		IosBundleId: r.IosBundleId,
		Tracks:      r.Tracks,
	}
}

type UpdateProjectRequest struct {
	ProjectId   string                `path:"id" json:"-" form:"-"`
	Name        string                `json:"name" form:"name" validate:"max=200"`
	Description *string               `json:"description,omitempty" form:"description" validate:"omitempty,max=2000"`
	IosBundleId *string               `json:"iosBundleId,omitempty" form:"iosBundleId" validate:"omitempty,max=255"`
	Tracks      []string              `json:"tracks,omitempty" form:"tracks" validate:"max=50,dive,max=64"`
	File        *multipart.FileHeader `json:"-" form:"file"`
}

func (r UpdateProjectRequest) Input() ProjectInput {
	return ProjectInput{
		Id:          r.ProjectId,
		Name:        r.Name,
		Description: r.Description,
		IosBundleId: r.IosBundleId,
		Tracks:      r.Tracks,
	}
}

// CreateReleaseRequest carries the release metadata and the artifact.
type CreateReleaseRequest struct {
	ProjectId string                `path:"id" json:"-" form:"-"`
	Name      string                `json:"name" form:"name" validate:"max=200"`
	Note      string                `json:"note" form:"note" validate:"max=5000"`
	Track     string                `json:"track" form:"track" validate:"max=64"`
	File      *multipart.FileHeader `json:"-" form:"file"`
}

func (r CreateReleaseRequest) Input() ReleaseInput {
	return ReleaseInput{Name: r.Name, Note: r.Note, Track: r.Track}
}

type UpdateReleaseRequest struct {
	ProjectId string                `path:"id" json:"-" form:"-"`
	ReleaseId string                `path:"releaseId" json:"-" form:"-"`
	Name      string                `json:"name" form:"name" validate:"max=200"`
	Note      string                `json:"note" form:"note" validate:"max=5000"`
	Track     string                `json:"track" form:"track" validate:"max=64"`
	File      *multipart.FileHeader `json:"-" form:"file"`
}

func (r UpdateReleaseRequest) Input() ReleaseInput {
	return ReleaseInput{Name: r.Name, Note: r.Note, Track: r.Track}
}
