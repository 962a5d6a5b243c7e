// package models defines the data model for the library augmentation
// and playlist generation pipeline.
package models
