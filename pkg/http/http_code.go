// Copyright 2025 Arcade Team
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

package http

var (
	RequestParameterParsingFailed = failed(5001, "Request parameter parsing failed")

	// Unauthorized 401
	AuthorizationIncorrect = failed(4403, "The authorization format in the request header is incorrect")
	InvalidToken           = failed(4405, "Invalid token")
	TokenBeEmpty           = failed(4406, "Token cannot be empty")
	TokenExpired           = failed(4407, "Token is expired")

	NotFound = failed(4004, "Not found")

	// Forbidden 403
	PermissionDenied = failed(4031, "Permission denied")

	InternalError = failed(5000, "Internal error, please contact the administrator")

	// pomelox 业务错误 41xx
	InvalidUserId        = failed(4101, "User id must be a positive integer")
	InvalidActivityId    = failed(4102, "Activity id is required")
	InvalidIdentityToken = failed(4103, "Not a valid identity token")
	InvalidUserRecord    = failed(4104, "User record is not valid JSON")
)

var Success = &Response{Code: 200, Msg: "Request Success"}

func failed(code int, msg string) *Response {
	return &Response{
		Code: code,
		Msg:  msg,
	}
}
