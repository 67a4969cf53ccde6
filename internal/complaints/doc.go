// Package complaints defines the complaint records exchanged with the
// complaints API and the small amount of input handling the front-end owns:
// id parsing, status vocabulary, submission validation and map placement.
//
// Status transitions and persistence belong to the API; nothing here decides
// whether a change is allowed.
package complaints
