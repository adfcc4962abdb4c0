// Package register registers every vendor integration linked into the build. Integrations are
// left out with the no_<vendor> build tags.
package register

import (
	// register vendors
	_ "go.viam.com/swerve/vendors/andymark"
	_ "go.viam.com/swerve/vendors/ctre"
	_ "go.viam.com/swerve/vendors/redux"
	_ "go.viam.com/swerve/vendors/rev"
	_ "go.viam.com/swerve/vendors/studica"
	_ "go.viam.com/swerve/vendors/thriftybot"
)
