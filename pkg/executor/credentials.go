// Copyright (c) 2017 Intel Corporation
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package executor

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
)

// Credentials of a remote endpoint, read once at startup from a file of
// username=, key=, password= and domain= lines.
type Credentials struct {
	// Path of the file the credentials were read from. Remote execution tools read it
	// on their own.
	Path     string
	Username string
	// Key is the path of an unencrypted private ssh key.
	Key      string
	Password string
	Domain   string
}

// LoadCredentials reads a credentials file.
func LoadCredentials(path string) (Credentials, error) {
	if _, err := os.Stat(path); err != nil {
		return Credentials{}, errors.Wrapf(err, "credentials file %q not found", path)
	}
	values, err := godotenv.Read(path)
	if err != nil {
		return Credentials{}, errors.Wrapf(err, "cannot read credentials file %q", path)
	}
	return Credentials{
		Path:     path,
		Username: values["username"],
		Key:      values["key"],
		Password: values["password"],
		Domain:   values["domain"],
	}, nil
}
