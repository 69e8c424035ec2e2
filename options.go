package orf

import (
	"github.com/pkg/errors"

	"github.com/kanishk-pant/orf-english/internal/store"
	"github.com/kanishk-pant/orf-english/internal/transcribe"
)

//
// configuration option for the assessment service
//
type Option func(*Service) error

//
// apply the given options to the service instance
//
func (s *Service) setOptions(options ...Option) error {
	for _, opt := range options {
		if err := opt(s); err != nil {
			return err
		}
	}
	return nil
}

//
// the unique name of this service instance, leave blank
// to auto-generate
//
func Name(name string) Option {
	return func(s *Service) error {
		s.serviceName = name
		return nil
	}
}

//
// the unique id of this service instance, leave blank
// to auto-generate
//
func ID(id string) Option {
	return func(s *Service) error {
		s.serviceID = id
		return nil
	}
}

//
// the host address to run this service on
//
func Host(host string) Option {
	return func(s *Service) error {
		s.serviceHost = host
		return nil
	}
}

//
// the port to run this service on, 0 selects an
// available port automatically
//
func Port(port int) Option {
	return func(s *Service) error {
		if port < 0 {
			return errors.Errorf("invalid port: %d", port)
		}
		s.servicePort = port
		return nil
	}
}

//
// browser origins allowed to call the api, defaults to the
// local recording front-end
//
func CORSOrigins(origins ...string) Option {
	return func(s *Service) error {
		s.corsOrigins = origins
		return nil
	}
}

//
// directory where uploaded recordings are kept
//
func UploadDir(dir string) Option {
	return func(s *Service) error {
		s.uploadDir = dir
		return nil
	}
}

//
// persistence for students and their assessment history
//
func Store(st *store.Store) Option {
	return func(s *Service) error {
		s.store = st
		return nil
	}
}

//
// the speech-to-text collaborator used to transcribe
// uploaded recordings
//
func Transcriber(t transcribe.Transcriber) Option {
	return func(s *Service) error {
		s.transcriber = t
		return nil
	}
}
