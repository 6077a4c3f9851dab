/*
Copyright 2024 The Kubeflow authors.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    https://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package databricks

// CreateSecretScopeRequest is the payload of secrets/scopes/create.
type CreateSecretScopeRequest struct {
	Scope                  string `json:"scope"`
	InitialManagePrincipal string `json:"initial_manage_principal,omitempty"`
}

// Email is one of the addresses of a workspace user.
type Email struct {
	Value   string `json:"value"`
	Type    string `json:"type,omitempty"`
	Primary bool   `json:"primary,omitempty"`
}

// User is the SCIM representation of a workspace user, as returned by
// preview/scim/v2/Me.
type User struct {
	ID          string  `json:"id"`
	UserName    string  `json:"userName"`
	DisplayName string  `json:"displayName,omitempty"`
	Active      bool    `json:"active,omitempty"`
	Emails      []Email `json:"emails,omitempty"`
}
