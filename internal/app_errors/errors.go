package app_errors

import "errors"

var ErrUserExists = errors.New("user already exists")
var ErrUserNotFound = errors.New("user not found")
var ErrIncorrectPassword = errors.New("incorrect password")
var ErrTokenNotFound = errors.New("token not found")
var ErrTokenExpired = errors.New("token expired")
var ErrCourseNotFound = errors.New("course not found")
var ErrVideoNotFound = errors.New("video not found")
var ErrNotCourseTutor = errors.New("you are not the course tutor")
var ErrAlreadyEnrolled = errors.New("user is already enrolled in course")
var ErrNotEnrolled = errors.New("user is not enrolled in course")
var ErrNotImage = errors.New("not image")
var ErrNotVideo = errors.New("not video")
var ErrFileSize = errors.New("file size error")
var ErrMissingOutcome = errors.New("first three learning outcomes are required")
var ErrPaymentSessionNotFound = errors.New("payment session not found")
var ErrEmptyMessage = errors.New("empty chat message")
